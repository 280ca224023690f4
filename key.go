package pulse

import (
	"sort"
	"strings"
)

// Separators for the canonical label and prefix encodings. Caller
// strings are escaped before encoding, so the separator bytes may
// appear in label names, label values, and prefix segments.
const (
	esc     = "\x1d"
	pairSep = "\x1e"
	kvSep   = "\x1f"
)

var (
	fieldEscaper   = strings.NewReplacer(esc, esc+"0", pairSep, esc+"1", kvSep, esc+"2")
	fieldUnescaper = strings.NewReplacer(esc+"0", esc, esc+"1", pairSep, esc+"2", kvSep)
)

// A Label is one name/value attribution attached to a metric.
type Label struct {
	Name  string
	Value string
}

// Key is the canonical identity of one metric time series: a name, an
// optional hierarchical prefix, and an ordered label set. Keys are
// immutable values; two Keys built from the same logical (name, prefix,
// labels) compare equal regardless of label insertion order.
type Key struct {
	name   string
	prefix string // segments joined by pairSep
	labels string // sorted k/v pairs in canonical encoding
}

// NewKey builds a Key with a root prefix from a name and a label map.
func NewKey(name string, labels map[string]string) Key {
	ls := make([]Label, 0, len(labels))
	for k, v := range labels {
		ls = append(ls, Label{k, v})
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i].Name < ls[j].Name })
	return Key{name: name, labels: encodeLabels(ls)}
}

func newKey(name string, prefix []string, labels []Label) Key {
	return Key{
		name:   name,
		prefix: encodePrefix(prefix),
		labels: encodeLabels(labels),
	}
}

// Name returns the bare metric name, without the prefix.
func (k Key) Name() string { return k.name }

// FullName returns the exposed metric name: the prefix segments and the
// name joined with colons.
func (k Key) FullName() string {
	if k.prefix == "" {
		return k.name
	}
	return fieldUnescaper.Replace(strings.ReplaceAll(k.prefix, pairSep, ":")) + ":" + k.name
}

// Prefix returns the prefix path segments.
func (k Key) Prefix() []string {
	if k.prefix == "" {
		return nil
	}
	segments := strings.Split(k.prefix, pairSep)
	for i, s := range segments {
		segments[i] = fieldUnescaper.Replace(s)
	}
	return segments
}

// Labels returns the label set in its canonical (sorted) order.
func (k Key) Labels() []Label {
	if k.labels == "" {
		return nil
	}
	pairs := strings.Split(k.labels, pairSep)
	ls := make([]Label, len(pairs))
	for i, p := range pairs {
		name, value, _ := strings.Cut(p, kvSep)
		ls[i] = Label{Name: fieldUnescaper.Replace(name), Value: fieldUnescaper.Replace(value)}
	}
	return ls
}

// Less imposes a total order over Keys: by prefix, then name, then
// labels.
func (k Key) Less(other Key) bool {
	if k.prefix != other.prefix {
		return k.prefix < other.prefix
	}
	if k.name != other.name {
		return k.name < other.name
	}
	return k.labels < other.labels
}

func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.FullName())
	if ls := k.Labels(); len(ls) > 0 {
		sb.WriteByte('{')
		for i, l := range ls {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(l.Name)
			sb.WriteString(`="`)
			sb.WriteString(l.Value)
			sb.WriteByte('"')
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

func encodeLabels(ls []Label) string {
	if len(ls) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, l := range ls {
		if i > 0 {
			sb.WriteString(pairSep)
		}
		sb.WriteString(fieldEscaper.Replace(l.Name))
		sb.WriteString(kvSep)
		sb.WriteString(fieldEscaper.Replace(l.Value))
	}
	return sb.String()
}

func encodePrefix(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, s := range segments {
		if i > 0 {
			sb.WriteString(pairSep)
		}
		sb.WriteString(fieldEscaper.Replace(s))
	}
	return sb.String()
}

// StatKey is a Key for a value distribution, together with the
// histogram bounds to use when the backing cell is first created.
type StatKey struct {
	Key
	Low  uint64
	High uint64
}
