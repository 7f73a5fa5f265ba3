// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

/*
Package models defines data structures for the Skilltrail application.

This package contains all data models used throughout the application:
learner profiles, recommendation bundles, progress records, and API
request/response structures. It serves as the single source of truth for
data structure definitions.

Model Categories:

1. Learner Models:
  - LearnerProfile: Onboarding profile driving recommendation generation
  - LearnerState: Cross-roadmap XP, level, and streak state

2. Recommendation Models:
  - RoadmapRecommendation: AI-curated roadmap suggestion
  - ResourceRecommendation: AI-curated article/course/documentation
  - VideoCandidate: Scored video search result
  - RecommendationBundle: The complete persisted recommendation set

3. Progress Models:
  - ProgressRecord: Per-(learner, roadmap) step completion and percent

4. API Request/Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp, query time)

Thread Safety:

All models are data structures only - immutable after creation, safe for
concurrent read access, no internal mutexes.

JSON Marshaling:

All models use camelCase struct tags matching the public API, omitempty
for optional fields, and time.Time in RFC3339 format.
*/
package models
