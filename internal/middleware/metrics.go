package middleware

// METRICS:
// Prometheus collectors for HTTP traffic and for classified errors.
//
// LABEL CARDINALITY:
// The "path" label is the chi route pattern (/api/articles/{article_id}),
// never the raw URL, so one route is one time series no matter how many ids
// are requested. Unmatched requests share the single label "unmatched".

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// apiErrors counts error responses by classifier category
	// (bad_request, not_found, constraint, payload_too_large, internal).
	apiErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_api_errors_total",
			Help: "Error responses by category.",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, apiErrors)
}

// RecordError increments the error counter for category.
func RecordError(category string) {
	apiErrors.WithLabelValues(category).Inc()
}

// Metrics instruments every request with the collectors above.
// It must be mounted with Use on the root router so the route pattern is
// complete by the time the handler returns.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpReqs.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpLat.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
