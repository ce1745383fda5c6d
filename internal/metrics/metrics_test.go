package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Answers.WithLabelValues("story").Inc()
	m.Answers.WithLabelValues("story").Inc()
	m.Results.WithLabelValues("visionary").Inc()
	m.Resets.Inc()

	if got := testutil.ToFloat64(m.Answers.WithLabelValues("story")); got != 2 {
		t.Errorf("story answers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Results.WithLabelValues("visionary")); got != 1 {
		t.Errorf("visionary results = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Resets); got != 1 {
		t.Errorf("resets = %v, want 1", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/admin/scans/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/quiz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})

	for _, path := range []string{"/admin/scans/1", "/admin/scans/2", "/quiz"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/admin/scans/{id}", "418")); got != 2 {
		t.Errorf("pattern counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/quiz", "200")); got != 1 {
		t.Errorf("/quiz counter = %v, want 1", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Results.WithLabelValues("explorer").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `scanner_results_total{primary="explorer"} 1`) {
		t.Errorf("metrics output missing results counter:\n%s", body)
	}
}
