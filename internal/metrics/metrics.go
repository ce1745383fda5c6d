package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the scanner's collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	Answers         *prometheus.CounterVec
	Results         *prometheus.CounterVec
	Resets          prometheus.Counter
	Insights        *prometheus.CounterVec
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_answers_total",
				Help: "Answers given, by question module",
			},
			[]string{"module"},
		),
		Results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_results_total",
				Help: "Completed quizzes, by primary archetype",
			},
			[]string{"primary"},
		),
		Resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scanner_resets_total",
				Help: "Quiz restarts",
			},
		),
		Insights: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_insights_total",
				Help: "LLM reflection requests, by outcome",
			},
			[]string{"outcome"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
	}
	reg.MustRegister(m.Answers, m.Results, m.Resets, m.Insights, m.RequestCounter, m.RequestDuration)
	return m
}

// Middleware records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
