package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/catalog-pricing/pkg/metrics"
)

// Metrics observes request counts and latency labelled by chi route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.Begin()
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			done(r.Method, matchedPattern(r), status, time.Since(start))
		})
	}
}
