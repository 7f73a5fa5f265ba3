// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"net/http"
	"time"

	"github.com/skilltrail/skilltrail/internal/models"
)

// Health handles GET /api/v1/health
//
// Reports "degraded" rather than failing when the store ping fails, so
// dashboards can still see version and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	storeConnected := h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           h.version,
		StoreConnected:    storeConnected,
		GenerationEnabled: h.generationEnabled,
		VideoSearch:       h.breakerState != nil,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breakerState != nil {
		health.VideoSearchState = h.breakerState()
	}

	respondData(w, http.StatusOK, health, start)
}

// HealthLive handles GET /api/v1/health/live
//
// Liveness only proves the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready
//
// Readiness requires a working store; generation and video search are
// optional features and never block readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Persistence layer is not ready", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
