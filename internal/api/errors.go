// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

// errors.go - Domain-to-HTTP error mapping
//
// All handlers route domain errors through mapDomainError so each domain
// condition maps to exactly one status code and error code.
package api

import (
	"errors"
	"net/http"

	"github.com/skilltrail/skilltrail/internal/progress"
	"github.com/skilltrail/skilltrail/internal/recommend"
	"github.com/skilltrail/skilltrail/internal/store"
)

// mapDomainError translates a domain error into an HTTP status, a stable
// error code, and a client-safe message.
func mapDomainError(err error) (status int, code, message string) {
	var genErr *recommend.GenerationError

	switch {
	case errors.Is(err, recommend.ErrProfileIncomplete):
		return http.StatusBadRequest, "PROFILE_INCOMPLETE", "Learner profile must include at least one tech interest before generating recommendations"
	case errors.Is(err, recommend.ErrGenerationInProgress):
		return http.StatusConflict, "GENERATION_IN_PROGRESS", "Recommendation generation is already running for this learner"
	case errors.Is(err, recommend.ErrGenerationDisabled):
		return http.StatusServiceUnavailable, "GENERATION_DISABLED", "Recommendation generation is not configured on this server"
	case errors.Is(err, recommend.ErrNoBundle):
		return http.StatusNotFound, "NO_RECOMMENDATIONS", "No recommendations have been generated for this learner yet"
	case errors.As(err, &genErr):
		return http.StatusBadGateway, "GENERATION_FAILED", "The generation service returned an unusable response"
	case errors.Is(err, progress.ErrAlreadyStarted):
		return http.StatusConflict, "ALREADY_STARTED", "This roadmap has already been started"
	case errors.Is(err, progress.ErrNotStarted):
		return http.StatusNotFound, "NOT_STARTED", "This roadmap has not been started yet"
	case errors.Is(err, progress.ErrStepOutOfRange):
		return http.StatusBadRequest, "STEP_OUT_OF_RANGE", "Step index is outside the roadmap's step range"
	case errors.Is(err, progress.ErrInvalidSteps):
		return http.StatusBadRequest, "INVALID_TOTAL_STEPS", "Total steps must be a positive number"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "The requested record does not exist"
	case errors.Is(err, store.ErrVersionConflict):
		return http.StatusConflict, "WRITE_CONFLICT", "The record was modified concurrently, retry the request"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred"
	}
}

// respondDomainError maps err and writes the error envelope.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := mapDomainError(err)
	respondError(w, status, code, message, err)
}
