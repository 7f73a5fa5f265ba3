// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recommendation pipeline.
var (
	// ErrProfileIncomplete indicates the learner profile is missing or has
	// no interest domains, so no prompt or queries can be built.
	ErrProfileIncomplete = errors.New("learner profile is incomplete: no tech interests")

	// ErrGenerationInProgress indicates a generate call is already running
	// for this learner. Concurrent calls are rejected, not queued.
	ErrGenerationInProgress = errors.New("recommendation generation already in progress for learner")

	// ErrGenerationDisabled indicates the generation service is not
	// configured (missing API key), so generate calls cannot proceed.
	ErrGenerationDisabled = errors.New("recommendation generation is not configured")

	// ErrNoBundle indicates no recommendation bundle has been generated
	// for this learner yet.
	ErrNoBundle = errors.New("no recommendations generated for learner")
)

// Generation failure reasons carried by GenerationError.
const (
	ReasonTransport    = "transport"     // network or upstream failure
	ReasonUnparsable   = "unparsable"    // response is not valid JSON
	ReasonInvalidShape = "invalid_shape" // JSON parsed but failed validation
)

// GenerationError describes a failed generation attempt. Reason is one of
// the Reason* constants; Field names the first offending field for
// invalid_shape failures.
type GenerationError struct {
	Reason string
	Field  string
	Err    error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("generation response %s: field %s", e.Reason, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("generation %s: %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("generation %s", e.Reason)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// newShapeError builds an invalid_shape GenerationError naming the field.
func newShapeError(field string) *GenerationError {
	return &GenerationError{Reason: ReasonInvalidShape, Field: field}
}
