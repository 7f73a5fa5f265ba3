// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"strings"

	"github.com/skilltrail/skilltrail/internal/models"
)

// Relevance scoring weights. The score starts at scoreBase and accumulates
// per matched signal, clamped to [0, 100].
const (
	scoreBase            = 50
	scoreExperienceMatch = 20
	scoreDomainMatch     = 15
	scoreSkillMatch      = 10
	scoreStyleKeyword    = 5
	scoreChannelBoost    = 15
	scoreMax             = 100
)

// styleKeywords maps a learning style to content keywords that indicate a
// video matches that style.
var styleKeywords = map[string][]string{
	models.StyleHandsOn:     {"project", "build", "code along"},
	models.StyleVisual:      {"video", "diagram", "animation"},
	models.StyleTheoretical: {"concept", "theory", "explanation"},
}

// educationalChannels is the allowlist of channels that receive a quality
// boost. Matched case-insensitively as a substring of the channel title.
var educationalChannels = []string{
	"freecodecamp",
	"programming with mosh",
	"traversy media",
	"tech with tim",
	"corey schafer",
	"sentdex",
	"3blue1brown",
}

// ScoreVideo computes the profile relevance of a video candidate.
//
// Matching is case-insensitive substring search over the concatenated
// title and description; the channel boost matches the channel title only.
// Weights: +20 experience level, +15 per interest domain, +10 per current
// skill, +5 per learning-style keyword, +15 educational channel. The
// result is clamped to [0, 100].
func ScoreVideo(profile *models.LearnerProfile, video *models.VideoCandidate) int {
	score := scoreBase

	content := strings.ToLower(video.Title) + " " + strings.ToLower(video.Description)

	if profile.ExperienceLevel != "" && strings.Contains(content, strings.ToLower(profile.ExperienceLevel)) {
		score += scoreExperienceMatch
	}

	for _, domain := range profile.TechInterests {
		if domain != "" && strings.Contains(content, strings.ToLower(domain)) {
			score += scoreDomainMatch
		}
	}

	for _, skill := range profile.CurrentSkills {
		if skill != "" && strings.Contains(content, strings.ToLower(skill)) {
			score += scoreSkillMatch
		}
	}

	if keywords, ok := styleKeywords[strings.ToLower(profile.LearningStyle)]; ok {
		for _, keyword := range keywords {
			if strings.Contains(content, keyword) {
				score += scoreStyleKeyword
			}
		}
	}

	channel := strings.ToLower(video.Channel)
	for _, name := range educationalChannels {
		if strings.Contains(channel, name) {
			score += scoreChannelBoost
			break
		}
	}

	if score > scoreMax {
		score = scoreMax
	}
	if score < 0 {
		score = 0
	}
	return score
}
