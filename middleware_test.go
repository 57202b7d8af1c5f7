package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	t.Run("Explicit WriteHeader", func(t *testing.T) {
		rr := httptest.NewRecorder()
		rw := newResponseWriter(rr)

		rw.WriteHeader(http.StatusNotFound)

		assert.Equal(t, http.StatusNotFound, rw.statusCode)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Default 200", func(t *testing.T) {
		rr := httptest.NewRecorder()
		rw := newResponseWriter(rr)

		_, err := rw.Write([]byte("ok"))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rw.statusCode)
	})
}

func TestMetricsMiddleware_PassesThrough(t *testing.T) {
	handler := metricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/arduino/4433/data", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "short and stout", rr.Body.String())
}

func TestMetricsMiddleware_OneSeriesPerRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/arduino/{id}/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := metricsMiddleware(mux)

	seriesBefore := testutil.CollectAndCount(httpRequestsTotal)

	for _, deviceID := range []int{4433, 4434, 4435, 4436} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/arduino/%d/data", deviceID), nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
	}

	if got := testutil.CollectAndCount(httpRequestsTotal) - seriesBefore; got != 1 {
		t.Errorf("expected 1 new series for 4 devices polling one route, got %d", got)
	}

	counter := httpRequestsTotal.WithLabelValues("GET /api/arduino/{id}/data", http.MethodGet, "200")
	assert.Equal(t, 4.0, testutil.ToFloat64(counter))
}

func TestCorsMiddleware(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/arduino/4433/data", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
