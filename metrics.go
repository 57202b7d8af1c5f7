package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// httpRequestsTotal is a Prometheus counter vector that tracks the total number of HTTP requests.
// It is partitioned by the matched route pattern, HTTP method, and the resulting status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "surflamp_http_requests_total",
	Help: "Total number of HTTP requests by route, method and code.",
}, []string{"route", "method", "code"})

// upstreamFetchFailures counts failed upstream fetch attempts by error kind.
var upstreamFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "surflamp_upstream_fetch_failures_total",
	Help: "Total number of failed upstream fetch attempts by error kind.",
}, []string{"kind"})

// schedulerCycles counts started ingestion cycles.
var schedulerCycles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "surflamp_scheduler_cycles_total",
	Help: "Total number of ingestion cycles started.",
})

// locationsUpdated counts successful per-location condition writes.
var locationsUpdated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "surflamp_locations_updated_total",
	Help: "Total number of location condition rows written.",
})
