// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/skilltrail/skilltrail/internal/models"
)

// urlPattern matches the http(s) URLs accepted for resource links.
var urlPattern = regexp.MustCompile(`^https?://`)

// Difficulty and resource type values accepted from the generation service.
var (
	validDifficulties = map[string]bool{
		models.ExperienceBeginner:     true,
		models.ExperienceIntermediate: true,
		models.ExperienceAdvanced:     true,
	}
	validResourceTypes = map[string]bool{
		models.ResourceArticle:       true,
		models.ResourceCourse:        true,
		models.ResourceDocumentation: true,
	}
)

// generationPayload is the wire shape the generation service must return.
type generationPayload struct {
	Roadmaps  []models.RoadmapRecommendation  `json:"roadmaps"`
	Resources []models.ResourceRecommendation `json:"resources"`
}

// ParseGenerationResponse decodes and validates the generation service's
// raw text output.
//
// Models often wrap JSON in markdown fences despite instructions, so a
// single leading ```json (or bare ```) fence line and trailing ``` fence
// are stripped before decoding. Validation is all-or-nothing: one bad
// roadmap or resource rejects the whole payload with a GenerationError
// naming the offending field. Nothing is patched or defaulted.
func ParseGenerationResponse(raw string) ([]models.RoadmapRecommendation, []models.ResourceRecommendation, error) {
	cleaned := stripFences(raw)

	var payload generationPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, nil, &GenerationError{Reason: ReasonUnparsable, Err: err}
	}

	if len(payload.Roadmaps) == 0 {
		return nil, nil, newShapeError("roadmaps")
	}
	if len(payload.Resources) == 0 {
		return nil, nil, newShapeError("resources")
	}

	for i := range payload.Roadmaps {
		if field := validateRoadmap(&payload.Roadmaps[i]); field != "" {
			return nil, nil, newShapeError(fmt.Sprintf("roadmaps[%d].%s", i, field))
		}
	}
	for i := range payload.Resources {
		if field := validateResource(&payload.Resources[i]); field != "" {
			return nil, nil, newShapeError(fmt.Sprintf("resources[%d].%s", i, field))
		}
	}

	return payload.Roadmaps, payload.Resources, nil
}

// stripFences removes a leading ```json or ``` fence and a trailing ```
// fence, each at most once, trimming surrounding whitespace.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = strings.TrimSpace(cleaned[len("```json"):])
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimSpace(cleaned[len("```"):])
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len("```")])
	}
	return cleaned
}

// validateRoadmap returns the name of the first invalid field, or "".
func validateRoadmap(r *models.RoadmapRecommendation) string {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return "id"
	case strings.TrimSpace(r.Title) == "":
		return "title"
	case strings.TrimSpace(r.Description) == "":
		return "description"
	case !validDifficulties[strings.ToLower(r.Difficulty)]:
		return "difficulty"
	case strings.TrimSpace(r.EstimatedTime) == "":
		return "estimatedTime"
	case r.MatchScore < 0 || r.MatchScore > 100:
		return "matchScore"
	case len(r.Reasons) == 0:
		return "reasons"
	}
	for _, reason := range r.Reasons {
		if strings.TrimSpace(reason) == "" {
			return "reasons"
		}
	}
	return ""
}

// validateResource returns the name of the first invalid field, or "".
func validateResource(r *models.ResourceRecommendation) string {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return "id"
	case strings.TrimSpace(r.Title) == "":
		return "title"
	case !validResourceTypes[strings.ToLower(r.Type)]:
		return "type"
	case strings.TrimSpace(r.Source) == "":
		return "source"
	case strings.TrimSpace(r.ReadTime) == "":
		return "readTime"
	case !validDifficulties[strings.ToLower(r.Difficulty)]:
		return "difficulty"
	case !urlPattern.MatchString(r.URL):
		return "url"
	}
	return ""
}
