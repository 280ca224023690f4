// Package prometheus renders pulse reports in the Prometheus text
// exposition format. Counters and gauges become plain sample lines;
// stats are expanded into count/sum/min/max lines, a fixed set of
// quantile lines, and cumulative le buckets. Output is deterministic:
// formatting the same report twice produces byte-identical text.
package prometheus

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulsemetrics/pulse"
)

var quantiles = []struct {
	q     float64
	label string
}{
	{0.5, "0.5"},
	{0.9, "0.9"},
	{0.95, "0.95"},
	{0.99, "0.99"},
	{0.999, "0.999"},
	{0.9999, "0.9999"},
}

// Format renders the report to w.
func Format(w io.Writer, r *pulse.Report) error {
	ew := &errWriter{w: w}

	for _, c := range r.Counters() {
		ew.sample(c.Key.FullName(), c.Key.Labels(), "", "", c.Value)
	}
	for _, g := range r.Gauges() {
		ew.sample(g.Key.FullName(), g.Key.Labels(), "", "", g.Value)
	}
	for _, s := range r.Stats() {
		name := s.Key.FullName()
		labels := s.Key.Labels()
		ew.sample(name+"_count", labels, "", "", s.Count)
		ew.sample(name+"_sum", labels, "", "", s.Sum)
		ew.sample(name+"_min", labels, "", "", s.Min)
		ew.sample(name+"_max", labels, "", "", s.Max)
		for _, q := range quantiles {
			ew.sample(name, labels, "quantile", q.label, s.Quantile(q.q))
		}
		for _, b := range s.Buckets() {
			ew.sample(name+"_bucket", labels, "le", fmt.Sprintf("%d", b.UpperBound), b.Count)
		}
		ew.sample(name+"_bucket", labels, "le", "+Inf", s.Count)
	}

	return ew.err
}

// String renders the report to a string.
func String(r *pulse.Report) (string, error) {
	var sb strings.Builder
	sb.Grow(16 * 1024)
	if err := Format(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type errWriter struct {
	w   io.Writer
	err error
}

// sample writes one exposition line. extraName/extraValue, when set,
// append a synthetic label such as quantile or le after the metric's
// own labels.
func (ew *errWriter) sample(name string, labels []pulse.Label, extraName, extraValue string, value uint64) {
	if ew.err != nil {
		return
	}
	clause := labelClause(labels, extraName, extraValue)
	if clause == "" {
		_, ew.err = fmt.Fprintf(ew.w, "%s %d\n", name, value)
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, "%s{%s} %d\n", name, clause, value)
}

func labelClause(labels []pulse.Label, extraName, extraValue string) string {
	if len(labels) == 0 && extraName == "" {
		return ""
	}
	var sb strings.Builder
	for i, l := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.Name)
		sb.WriteString(`="`)
		sb.WriteString(escaper.Replace(l.Value))
		sb.WriteString(`"`)
	}
	if extraName != "" {
		if len(labels) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(extraName)
		sb.WriteString(`="`)
		sb.WriteString(extraValue)
		sb.WriteString(`"`)
	}
	return sb.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
