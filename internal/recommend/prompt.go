// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"fmt"
	"strings"

	"github.com/skilltrail/skilltrail/internal/models"
)

// minSearchQueries is the floor below which a generic fallback query is
// appended to the search query set.
const minSearchQueries = 3

// promptTemplate is the curator prompt sent to the generation service.
// The output contract is embedded verbatim so the parser can rely on it.
const promptTemplate = `You are an expert learning path curator. Generate highly personalized, real-time learning recommendations based on the learner's profile. Ensure recommendations are current, diverse, and tailored to the learner's experience, goals, and style. Avoid generic suggestions; focus on actionable, high-quality paths and resources. Always generate at least 3 roadmaps and 5 resources, even if the profile is general.

Learner Profile:
- Experience Level: %s
- Interested Domains: %s
- Career Goals: %s
- Time Commitment: %s hours per week
- Preferred Learning Style: %s
- Current Skills: %s

Provide:
1. 3-5 personalized learning roadmaps (step-by-step paths) with difficulty, estimated time, match score (0-100), and 2-3 specific reasons why it fits the learner.
2. 5-8 relevant resources (mix of free articles, official docs, and online courses from reputable sources). Include URLs to real, current resources.
3. For each roadmap and resource, ensure alignment with the learner's time, style (e.g., hands-on projects for hands-on style), and goals.

Output strictly as valid JSON (no extra text, markdown, or explanations):
{
  "roadmaps": [
    {
      "id": "unique-string-id",
      "title": "Roadmap Title",
      "description": "Detailed step-by-step description (3-5 steps)",
      "difficulty": "beginner|intermediate|advanced",
      "estimatedTime": "X-Y months at learner's time commitment",
      "matchScore": 85,
      "reasons": ["Reason 1 tailored to profile", "Reason 2"]
    }
  ],
  "resources": [
    {
      "id": "unique-string-id",
      "title": "Resource Title",
      "type": "article|course|documentation",
      "source": "Source name (e.g., freeCodeCamp, MDN)",
      "readTime": "X hours/minutes",
      "difficulty": "beginner|intermediate|advanced",
      "url": "https://real-url.com (must be a valid, current link)"
    }
  ]
}

Ensure JSON is parseable and all fields are filled appropriately. Prioritize quality over quantity.`

// BuildPrompt renders a learner profile into the curator prompt.
//
// Optional profile fields fall back to neutral placeholders so the prompt
// stays well-formed; only missing interest domains make prompt construction
// impossible (ErrProfileIncomplete).
func BuildPrompt(profile *models.LearnerProfile) (string, error) {
	if !profile.IsComplete() {
		return "", ErrProfileIncomplete
	}

	return fmt.Sprintf(promptTemplate,
		orDefault(profile.ExperienceLevel, "beginner"),
		joinOrDefault(profile.TechInterests, "General Programming"),
		joinOrDefault(profile.CareerGoals, "Skill improvement"),
		orDefault(profile.TimeCommitment, "a few"),
		orDefault(profile.LearningStyle, "mixed"),
		joinOrDefault(profile.CurrentSkills, "None specified"),
	), nil
}

// BuildSearchQueries derives the video search query set from a profile.
//
// Each interest domain contributes three query shapes; a generic
// programming query is appended when the set would otherwise have fewer
// than three entries.
func BuildSearchQueries(profile *models.LearnerProfile) ([]string, error) {
	if !profile.IsComplete() {
		return nil, ErrProfileIncomplete
	}

	experience := orDefault(profile.ExperienceLevel, "beginner")
	style := strings.ToLower(orDefault(profile.LearningStyle, "mixed"))

	queries := make([]string, 0, len(profile.TechInterests)*3+1)
	for _, domain := range profile.TechInterests {
		queries = append(queries,
			fmt.Sprintf("%s %s tutorial %s", experience, domain, style),
			strings.TrimSpace(fmt.Sprintf("%s for %s %s", domain,
				strings.Join(profile.CareerGoals, " "),
				strings.Join(profile.CurrentSkills, " "))),
			fmt.Sprintf("best %s course %s level", domain, experience),
		)
	}

	if len(queries) < minSearchQueries {
		queries = append(queries, fmt.Sprintf("%s programming tutorial %s", experience, style))
	}

	return queries, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
