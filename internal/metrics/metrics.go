// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for production observability:
// - recommendation generation latency and outcomes
// - video search aggregation and per-query failures
// - circuit breaker state for outbound clients
// - progress tracking activity and XP awards
// - API endpoint latency and throughput

var (
	// Generation Metrics
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of roadmap generation calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120}, // LLM calls are slow
		},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Total number of roadmap generation attempts",
		},
		[]string{"outcome"}, // "success", "unparsable", "invalid_shape", "transport", "in_progress"
	)

	GenerationPromptBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_prompt_bytes",
			Help:    "Size of generation prompts in bytes",
			Buckets: []float64{256, 512, 1024, 2048, 4096, 8192},
		},
	)

	// Video Search Metrics
	VideoSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_search_duration_seconds",
			Help:    "Duration of full video search aggregation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	VideoQueryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_query_failures_total",
			Help: "Total number of individual video search queries that failed",
		},
	)

	VideoCandidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_candidates_returned",
			Help:    "Number of deduplicated video candidates per aggregation",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures per circuit breaker",
		},
		[]string{"name"},
	)

	// Progress Metrics
	ProgressToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_step_toggles_total",
			Help: "Total step toggle operations by direction",
		},
		[]string{"direction"}, // "completed", "uncompleted"
	)

	ProgressXPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_xp_awarded_total",
			Help: "Total XP awarded across all learners",
		},
	)

	ProgressRoadmapsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_roadmaps_started_total",
			Help: "Total roadmaps started",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Event Pipeline Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total domain events published by topic",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total domain events processed by the relay",
		},
		[]string{"topic"},
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total store operations by kind and result",
		},
		[]string{"operation", "result"}, // operation: "get", "set", "cas"; result: "ok", "not_found", "conflict", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGeneration records a generation attempt with its outcome label.
func RecordGeneration(outcome string, duration time.Duration) {
	GenerationRequests.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(duration.Seconds())
}

// RecordStoreOperation records a store operation result.
func RecordStoreOperation(operation, result string) {
	StoreOperations.WithLabelValues(operation, result).Inc()
}
