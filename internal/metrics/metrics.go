package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// dispatchTotal counts gateway sends.
	// Labels:
	// - provider: "resend", "smtp" or "none"
	// - outcome:  "success" or "failure"
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "mail",
			Name:      "dispatch_total",
			Help:      "Number of email dispatch attempts by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "outreach",
			Subsystem: "mail",
			Name:      "dispatch_duration_seconds",
			Help:      "Latency of email dispatch calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	statusWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "pipeline",
			Name:      "status_write_failures_total",
			Help:      "Contact status writes that failed after a dispatch attempt.",
		},
	)

	contactsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "pipeline",
			Name:      "contacts_processed_total",
			Help:      "Contacts that reached a terminal status in an outreach run.",
		},
		[]string{"status"},
	)

	runsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "pipeline",
			Name:      "runs_started_total",
			Help:      "Outreach runs accepted for sending.",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "outreach",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func ObserveDispatch(provider string, ok bool, d time.Duration) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	dispatchTotal.WithLabelValues(provider, outcome).Inc()
	dispatchDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func IncStatusWriteFailure() { statusWriteFailures.Inc() }

func IncContactProcessed(status string) { contactsProcessed.WithLabelValues(status).Inc() }

func IncRunsStarted() { runsStarted.Inc() }

// HTTPMiddleware instruments each request with Prometheus metrics.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		httpRequestDurationSeconds.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}
