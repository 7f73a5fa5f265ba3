// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skilltrail/skilltrail/internal/logging"
	"github.com/skilltrail/skilltrail/internal/models"
)

// profileRequest is the PUT profile body. The learner ID comes from the
// URL, never the body.
type profileRequest struct {
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced"`
	TechInterests   []string `json:"techInterests" validate:"required,min=1,dive,min=1"`
	CareerGoals     []string `json:"careerGoals" validate:"omitempty,dive,min=1"`
	TimeCommitment  string   `json:"timeCommitment" validate:"omitempty,max=64"`
	LearningStyle   string   `json:"learningStyle" validate:"omitempty,oneof=hands-on visual theoretical"`
	CurrentSkills   []string `json:"currentSkills" validate:"omitempty,dive,min=1"`
}

// GetProfile handles GET /api/v1/learners/{learnerID}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")

	profile, err := h.store.GetProfile(r.Context(), learnerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondData(w, http.StatusOK, profile, start)
}

// PutProfile handles PUT /api/v1/learners/{learnerID}/profile
//
// The profile is replaced wholesale; omitted optional fields clear their
// previous values.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	learnerID := chi.URLParam(r, "learnerID")

	var req profileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	profile := &models.LearnerProfile{
		LearnerID:       learnerID,
		ExperienceLevel: req.ExperienceLevel,
		TechInterests:   req.TechInterests,
		CareerGoals:     req.CareerGoals,
		TimeCommitment:  req.TimeCommitment,
		LearningStyle:   req.LearningStyle,
		CurrentSkills:   req.CurrentSkills,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := h.store.PutProfile(r.Context(), profile); err != nil {
		respondDomainError(w, err)
		return
	}

	logging.Info().Str("learner_id", sanitizeLogValue(learnerID)).Msg("Learner profile updated")
	respondData(w, http.StatusOK, profile, start)
}
