// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package models

import (
	"math"
	"sort"
	"time"
)

// ProgressRecord tracks step completion for one learner on one roadmap.
//
// CompletedSteps holds distinct zero-based step indexes in ascending order.
// TotalSteps is fixed when the roadmap is started and authoritative for
// percent calculation thereafter. Version increments on every write and is
// used by the store for optimistic concurrency.
type ProgressRecord struct {
	LearnerID       string    `json:"learnerId"`
	RoadmapID       string    `json:"roadmapId"`
	CompletedSteps  []int     `json:"completedSteps"`
	TotalSteps      int       `json:"totalSteps"`
	ProgressPercent int       `json:"progressPercent"`
	StartedAt       time.Time `json:"startedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Version         uint64    `json:"version"`
}

// HasStep reports whether the given step index is marked completed.
func (p *ProgressRecord) HasStep(stepIndex int) bool {
	for _, s := range p.CompletedSteps {
		if s == stepIndex {
			return true
		}
	}
	return false
}

// AddStep marks a step completed, keeping CompletedSteps sorted and distinct.
// Returns true if the step was newly added.
func (p *ProgressRecord) AddStep(stepIndex int) bool {
	if p.HasStep(stepIndex) {
		return false
	}
	p.CompletedSteps = append(p.CompletedSteps, stepIndex)
	sort.Ints(p.CompletedSteps)
	return true
}

// RemoveStep unmarks a completed step. Returns true if the step was present.
func (p *ProgressRecord) RemoveStep(stepIndex int) bool {
	for i, s := range p.CompletedSteps {
		if s == stepIndex {
			p.CompletedSteps = append(p.CompletedSteps[:i], p.CompletedSteps[i+1:]...)
			return true
		}
	}
	return false
}

// Recalculate updates ProgressPercent from the completed step count.
// Percent is rounded to the nearest integer; a zero TotalSteps yields 0.
func (p *ProgressRecord) Recalculate() {
	if p.TotalSteps <= 0 {
		p.ProgressPercent = 0
		return
	}
	p.ProgressPercent = int(math.Round(float64(len(p.CompletedSteps)) / float64(p.TotalSteps) * 100))
}
