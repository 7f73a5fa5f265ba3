// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

/*
Package recommend implements the recommendation pipeline: prompt
construction, generation response parsing, video relevance scoring,
and orchestration of the full generate-and-persist flow.

Pipeline stages:

  - Prompt building: BuildPrompt renders a learner profile into the
    curator prompt with a strict JSON output contract; BuildSearchQueries
    derives the video search query set from the same profile.
  - Parsing: ParseGenerationResponse strips markdown fences, decodes the
    JSON payload, and validates every roadmap and resource field before
    anything is accepted. Validation is all-or-nothing.
  - Scoring: ScoreVideo ranks video search results against the profile
    using keyword matching over title, description, and channel.
  - Orchestration: Orchestrator runs generation and video search
    concurrently per learner, enforces single-flight per learner, and
    persists the assembled bundle only on full generation success.

The prompt builder, parser, and scorer are pure functions so they can be
tested without any network or store dependencies.
*/
package recommend
