// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// GenerateRecommendations handles POST /api/v1/learners/{learnerID}/recommendations/generate
//
// Generation is synchronous: the response carries the fresh bundle. A
// concurrent request for the same learner gets 409 rather than a queued
// second run.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")

	bundle, err := h.orchestrator.Generate(r.Context(), learnerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, bundle, start)
}

// GetRecommendations handles GET /api/v1/learners/{learnerID}/recommendations
//
// Returns the stored bundle; never triggers generation.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")

	bundle, err := h.orchestrator.Latest(r.Context(), learnerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, bundle, start)
}
