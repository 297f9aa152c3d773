package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMiddleware)
	r.Get("/templates/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/templates/{id}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/templates/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/templates/def", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/templates/{id}", "404"))
	assert.Equal(t, 2.0, after-before)
}

func TestPipelineCounters(t *testing.T) {
	before := testutil.ToFloat64(contactsProcessed.WithLabelValues("failed"))
	IncContactProcessed("failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(contactsProcessed.WithLabelValues("failed"))-before)

	w := testutil.ToFloat64(statusWriteFailures)
	IncStatusWriteFailure()
	assert.Equal(t, 1.0, testutil.ToFloat64(statusWriteFailures)-w)
}
