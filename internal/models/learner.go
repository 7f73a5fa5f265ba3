// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package models

import "time"

// Experience levels accepted in learner profiles and roadmap difficulties.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Learning styles accepted in learner profiles.
const (
	StyleHandsOn     = "hands-on"
	StyleVisual      = "visual"
	StyleTheoretical = "theoretical"
)

// LearnerProfile is the onboarding profile that drives recommendation
// generation. TechInterests is the only structurally required field - a
// profile without at least one interest domain cannot produce recommendations.
type LearnerProfile struct {
	LearnerID       string    `json:"learnerId"`
	ExperienceLevel string    `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced"`
	TechInterests   []string  `json:"techInterests" validate:"required,min=1,dive,min=1"`
	CareerGoals     []string  `json:"careerGoals" validate:"omitempty,dive,min=1"`
	TimeCommitment  string    `json:"timeCommitment"`
	LearningStyle   string    `json:"learningStyle" validate:"omitempty,oneof=hands-on visual theoretical"`
	CurrentSkills   []string  `json:"currentSkills" validate:"omitempty,dive,min=1"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsComplete reports whether the profile carries enough signal to generate
// recommendations. Only the interest domains are strictly required.
func (p *LearnerProfile) IsComplete() bool {
	return p != nil && len(p.TechInterests) > 0
}

// LearnerState tracks cross-roadmap gamification state for a learner.
//
// XP is awarded when a step transitions to completed and never deducted;
// Level is derived as TotalXP/100 + 1. Streak counts consecutive calendar
// days with at least one XP-awarding event, with LastActiveDate recording
// the most recent such day (truncated to midnight UTC).
type LearnerState struct {
	LearnerID      string    `json:"learnerId"`
	TotalXP        int       `json:"totalXP"`
	Level          int       `json:"level"`
	Streak         int       `json:"streak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	Version        uint64    `json:"version"`
}

// LevelForXP computes the level implied by an XP total.
// Every 100 XP advances one level, starting at level 1.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/100 + 1
}
