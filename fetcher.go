package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// This file implements the low-level upstream fetcher: one GET with a
// deadline, a bounded retry loop for transient failures, and a typed error
// taxonomy so the per-location job can decide whether to try a fallback URL.

type FetchErrorKind string

const (
	FetchTimeout        FetchErrorKind = "timeout"
	FetchNetworkError   FetchErrorKind = "network_error"
	FetchHTTPStatus     FetchErrorKind = "http_status"
	FetchRateLimited    FetchErrorKind = "rate_limited"
	FetchDecodeError    FetchErrorKind = "decode_error"
	FetchUnknownAdapter FetchErrorKind = "unknown_adapter"
)

type FetchError struct {
	Kind       FetchErrorKind
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const (
	maxFetchAttempts = 3 // one try plus two retries
	maxRetryAfter    = 30 * time.Second
	retryBackoffUnit = 500 * time.Millisecond
)

// fetchJSON issues a GET against an upstream and returns the raw body together
// with the upstream's Date header. Transient failures (network resets, 5xx,
// timeouts) are retried up to two times; 4xx responses are not. A 429 is
// retried only when the upstream's Retry-After fits inside this cycle.
func fetchJSON(ctx context.Context, client *http.Client, url string) ([]byte, time.Time, error) {
	var lastErr *FetchError
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		body, httpDate, fetchErr := fetchOnce(ctx, client, url)
		if fetchErr == nil {
			return body, httpDate, nil
		}
		lastErr = fetchErr
		upstreamFetchFailures.WithLabelValues(string(fetchErr.Kind)).Inc()

		wait := time.Duration(attempt) * retryBackoffUnit
		switch fetchErr.Kind {
		case FetchTimeout, FetchNetworkError:
		case FetchHTTPStatus:
			if fetchErr.Status < 500 {
				return nil, time.Time{}, fetchErr
			}
		case FetchRateLimited:
			if fetchErr.RetryAfter <= 0 || fetchErr.RetryAfter > maxRetryAfter {
				return nil, time.Time{}, fetchErr
			}
			wait = fetchErr.RetryAfter
		default:
			return nil, time.Time{}, fetchErr
		}

		if attempt == maxFetchAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, time.Time{}, &FetchError{Kind: FetchTimeout, Err: ctx.Err()}
		case <-time.After(wait):
		}
	}
	return nil, time.Time{}, lastErr
}

func fetchOnce(ctx context.Context, client *http.Client, url string) ([]byte, time.Time, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: FetchNetworkError, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, time.Time{}, &FetchError{Kind: FetchTimeout, Err: err}
		}
		return nil, time.Time{}, &FetchError{Kind: FetchNetworkError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, time.Time{}, &FetchError{
			Kind:       FetchRateLimited,
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("rate limited by upstream"),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, &FetchError{
			Kind:   FetchHTTPStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, &FetchError{Kind: FetchNetworkError, Err: err}
	}

	httpDate, err := http.ParseTime(resp.Header.Get("Date"))
	if err != nil {
		httpDate = time.Time{}
	}
	return body, httpDate, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter handles the delta-seconds form of the header. The HTTP-date
// form is rare on the upstreams in the registry and is treated as "give up".
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
