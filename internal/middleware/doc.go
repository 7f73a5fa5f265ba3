// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

/*
Package middleware provides HTTP middleware in http.HandlerFunc form.

Middleware here is router-agnostic; the api package adapts it to Chi's
func(http.Handler) http.Handler shape where needed.

  - PrometheusMetrics: per-request counters, latency histograms, and an
    active-request gauge
  - Compression: gzip for responses over 1KB when the client accepts it
*/
package middleware
