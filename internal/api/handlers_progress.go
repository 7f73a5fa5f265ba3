// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skilltrail/skilltrail/internal/models"
)

// startRoadmapRequest is the POST start body.
type startRoadmapRequest struct {
	TotalSteps int `json:"totalSteps" validate:"required,gt=0,lte=1000"`
}

// toggleStepRequest is the POST steps body. TotalSteps is advisory and
// only honored for records without a stored step count.
type toggleStepRequest struct {
	StepIndex  int  `json:"stepIndex" validate:"gte=0"`
	Completed  bool `json:"completed"`
	TotalSteps int  `json:"totalSteps" validate:"omitempty,gt=0,lte=1000"`
}

// progressOverviewResponse is the GET progress payload.
type progressOverviewResponse struct {
	Roadmaps []models.ProgressRecord `json:"roadmaps"`
	State    *models.LearnerState    `json:"state"`
}

// toggleStepResponse pairs the updated record with the learner's XP state.
type toggleStepResponse struct {
	Progress *models.ProgressRecord `json:"progress"`
	State    *models.LearnerState   `json:"state"`
}

// ProgressOverview handles GET /api/v1/learners/{learnerID}/progress
func (h *Handler) ProgressOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")

	records, state, err := h.tracker.Overview(r.Context(), learnerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if records == nil {
		records = []models.ProgressRecord{}
	}

	respondData(w, http.StatusOK, progressOverviewResponse{Roadmaps: records, State: state}, start)
}

// StartRoadmap handles POST /api/v1/learners/{learnerID}/roadmaps/{roadmapID}/start
func (h *Handler) StartRoadmap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")
	roadmapID := chi.URLParam(r, "roadmapID")

	var req startRoadmapRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	record, err := h.tracker.Start(r.Context(), learnerID, roadmapID, req.TotalSteps)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusCreated, record, start)
}

// ToggleStep handles POST /api/v1/learners/{learnerID}/roadmaps/{roadmapID}/steps
func (h *Handler) ToggleStep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")
	roadmapID := chi.URLParam(r, "roadmapID")

	var req toggleStepRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	record, state, err := h.tracker.ToggleStep(r.Context(), learnerID, roadmapID, req.StepIndex, req.Completed, req.TotalSteps)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, toggleStepResponse{Progress: record, State: state}, start)
}
