// Skilltrail - Personalized Learning Roadmaps and Progress Tracking
// Copyright 2026 Skilltrail Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skilltrail/skilltrail

package recommend

import (
	"strings"
	"testing"
)

// ============================================================================
// Shared test assertion helpers
// ============================================================================

func checkNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", context, err)
	}
}

func checkError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error, got nil", context)
	}
}

func checkErrorContains(t *testing.T, err error, substr, context string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error containing %q, got nil", context, substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("%s: error %q does not contain %q", context, err.Error(), substr)
	}
}

func checkStringEqual(t *testing.T, got, want, context string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", context, got, want)
	}
}

func checkIntEqual(t *testing.T, got, want int, context string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %d, want %d", context, got, want)
	}
}

func checkTrue(t *testing.T, condition bool, context string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected condition to be true", context)
	}
}
