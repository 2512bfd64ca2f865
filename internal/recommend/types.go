// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package recommend

import "github.com/dmarceau/tagwise/internal/models"

// Recommendation is one ranked result: a candidate game together with
// how it relates to the source game. Immutable once created by Score.
type Recommendation struct {
	Game models.Game `json:"game"`

	// Score is the composite similarity score. Higher is better, but
	// results are ranked primarily by the matched tag count.
	Score float64 `json:"score"`

	// MatchedTags are the candidate's tags shared with the source game,
	// in the candidate's tag order.
	MatchedTags []models.Tag `json:"matched_tags"`

	// MatchReason summarizes the match for display, e.g.
	// "Matched 5 of 8 tags".
	MatchReason string `json:"match_reason"`
}

// MatchingTags returns the number of tags shared with the source game.
func (r *Recommendation) MatchingTags() int {
	return len(r.MatchedTags)
}
