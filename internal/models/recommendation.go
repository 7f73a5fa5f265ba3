// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package models

import "time"

// Resource types accepted from the generation service.
const (
	ResourceArticle       = "article"
	ResourceCourse        = "course"
	ResourceDocumentation = "documentation"
)

// RoadmapRecommendation is a single AI-curated roadmap suggestion.
// MatchScore expresses profile fit on a 0-100 scale as reported by the
// generation service; Reasons explains the match in the learner's terms.
type RoadmapRecommendation struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime string   `json:"estimatedTime"`
	MatchScore    int      `json:"matchScore"`
	Reasons       []string `json:"reasons"`
}

// ResourceRecommendation is a single AI-curated learning resource.
type ResourceRecommendation struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"` // article, course, documentation
	Source     string `json:"source"`
	ReadTime   string `json:"readTime"`
	Difficulty string `json:"difficulty"`
	URL        string `json:"url"`
}

// VideoCandidate is a video search result scored for profile relevance.
// RelevanceScore is computed locally (see recommend.ScoreVideo) and always
// falls within [0, 100].
type VideoCandidate struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Channel        string    `json:"channel"`
	Description    string    `json:"description"`
	PublishedAt    time.Time `json:"publishedAt"`
	ThumbnailURL   string    `json:"thumbnailUrl"`
	RelevanceScore int       `json:"relevanceScore"`
}

// RecommendationBundle is the complete recommendation set persisted per
// learner. A bundle is only ever written whole: a failed generation never
// replaces a previously stored bundle.
type RecommendationBundle struct {
	ID          string                   `json:"id"`
	LearnerID   string                   `json:"learnerId"`
	Roadmaps    []RoadmapRecommendation  `json:"roadmaps"`
	Resources   []ResourceRecommendation `json:"resources"`
	Videos      []VideoCandidate         `json:"videos"`
	GeneratedAt time.Time                `json:"generatedAt"`
}
