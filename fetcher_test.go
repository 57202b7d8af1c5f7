package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, httpDate, err := fetchJSON(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", body)
	}
	// httptest sets a Date header on every response.
	if httpDate.IsZero() {
		t.Error("expected the upstream Date header to be parsed")
	}
}

func TestFetchJSON_RetriesOnServerError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestFetchJSON_GivesUpAfterMaxAttempts(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchHTTPStatus || fetchErr.Status != http.StatusBadGateway {
		t.Errorf("unexpected error classification: %+v", fetchErr)
	}
	if got := attempts.Load(); got != maxFetchAttempts {
		t.Errorf("expected %d attempts, got %d", maxFetchAttempts, got)
	}
}

func TestFetchJSON_NoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchHTTPStatus || fetchErr.Status != http.StatusNotFound {
		t.Errorf("unexpected error classification: %+v", fetchErr)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt for a 4xx, got %d", got)
	}
}

func TestFetchJSON_RateLimitedWithShortRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	if err != nil {
		t.Fatalf("expected success after honoring Retry-After, got %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestFetchJSON_RateLimitedWithLongRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchRateLimited {
		t.Errorf("expected kind %q, got %q", FetchRateLimited, fetchErr.Kind)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected a single attempt when Retry-After exceeds the cap, got %d", got)
	}
}

func TestFetchJSON_RateLimitedWithoutRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, _, err := fetchJSON(context.Background(), server.Client(), server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchRateLimited {
		t.Errorf("expected kind %q, got %q", FetchRateLimited, fetchErr.Kind)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected a single attempt without Retry-After, got %d", got)
	}
}

func TestFetchJSON_TimeoutClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, _, err := fetchJSON(context.Background(), client, server.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchTimeout {
		t.Errorf("expected kind %q, got %q", FetchTimeout, fetchErr.Kind)
	}
}

func TestFetchJSON_NetworkError(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, _, err := fetchJSON(context.Background(), &http.Client{Timeout: time.Second}, url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != FetchNetworkError {
		t.Errorf("expected kind %q, got %q", FetchNetworkError, fetchErr.Kind)
	}
}

func TestParseRetryAfter(t *testing.T) {
	testCases := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"10", 10 * time.Second},
		{"0", 0},
		{"-5", 0},
		{"not-a-number", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}

	for _, tc := range testCases {
		if got := parseRetryAfter(tc.header); got != tc.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
