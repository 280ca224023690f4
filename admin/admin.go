// Package admin exposes a pulse Reporter over HTTP for pull-based
// collection. GET /metrics serves a Take snapshot (resetting gauges
// and stats, as a scrape should); GET /metrics/peek serves a
// non-destructive Peek snapshot for debugging without disturbing the
// scrape cadence.
package admin

import (
	"io"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-kit/log"

	"github.com/pulsemetrics/pulse"
	"github.com/pulsemetrics/pulse/prometheus"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

// Handler returns the admin HTTP handler for reporter.
func Handler(reporter *pulse.Reporter, logger log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/metrics", serve(reporter.Take, logger))
	r.Get("/metrics/peek", serve(reporter.Peek, logger))
	return r
}

func serve(snapshot func() *pulse.Report, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		out, err := prometheus.String(snapshot())
		if err != nil {
			logger.Log("msg", "failed to render metrics", "err", err)
			http.Error(w, "failed to render metrics", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		io.WriteString(w, out)
	}
}
