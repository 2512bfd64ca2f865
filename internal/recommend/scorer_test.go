// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package recommend

import (
	"math"
	"strings"
	"testing"

	"github.com/dmarceau/tagwise/internal/models"
)

func makeTags(ids ...int) []models.Tag {
	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, models.Tag{ID: id, Name: "tag-" + string(rune('a'+id%26))})
	}
	return tags
}

// noisyTags builds a tag set sharing `shared` tags with the source set
// (IDs 1..shared) plus `noise` tags outside it (IDs 100+).
func noisyTags(shared, noise int) []models.Tag {
	ids := make([]int, 0, shared+noise)
	for i := 1; i <= shared; i++ {
		ids = append(ids, i)
	}
	for i := 0; i < noise; i++ {
		ids = append(ids, 100+i)
	}
	return makeTags(ids...)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreCompositeFormula(t *testing.T) {
	// Source has 4 tags, candidate has 5, all 4 source tags shared:
	// overlap = 4/4 = 1.0, jaccard = 4/(4+5-4) = 0.8.
	// With rating 3.0 the modifier is exactly 1, so the score is
	// 0.6*1.0 + 0.4*0.8 = 0.92.
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := []models.Game{
		{ID: 2, Name: "Close Match", Rating: 3.0, Tags: makeTags(1, 2, 3, 4, 5)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if !almostEqual(recs[0].Score, 0.92) {
		t.Errorf("score = %v, want 0.92", recs[0].Score)
	}
	if recs[0].MatchingTags() != 4 {
		t.Errorf("matching tags = %d, want 4", recs[0].MatchingTags())
	}
}

func TestScoreRatingModifier(t *testing.T) {
	// Identical tag sets, differing only in rating. A 5.0 rating gives
	// modifier 1.04, a 1.0 rating gives 0.96.
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := []models.Game{
		{ID: 2, Rating: 5.0, Tags: makeTags(1, 2, 3, 4)},
		{ID: 3, Rating: 1.0, Tags: makeTags(1, 2, 3, 4)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if !almostEqual(recs[0].Score, 1.04) {
		t.Errorf("high-rated score = %v, want 1.04", recs[0].Score)
	}
	if !almostEqual(recs[1].Score, 0.96) {
		t.Errorf("low-rated score = %v, want 0.96", recs[1].Score)
	}
}

func TestScoreRanksByMatchingCountFirst(t *testing.T) {
	// A candidate with more shared tags outranks one with a higher
	// composite score.
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)}
	candidates := []models.Game{
		// 4 shared tags out of a tiny set: high jaccard, high rating.
		// Score: (0.6*0.4 + 0.4*0.4) * 1.04 = 0.416.
		{ID: 2, Name: "Fewer Matches", Rating: 5.0, Tags: makeTags(1, 2, 3, 4)},
		// 5 shared tags buried in a huge noisy tag set, low rating.
		// Score: (0.6*0.5 + 0.4*(5/35)) * 0.96 ~= 0.343.
		{ID: 3, Name: "More Matches", Rating: 1.0, Tags: noisyTags(5, 25)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Game.ID != 3 {
		t.Errorf("first result = %q, want the candidate with more shared tags", recs[0].Game.Name)
	}
	if recs[0].Score >= recs[1].Score {
		t.Error("test premise broken: the winner should have the lower composite score")
	}
}

func TestScoreTieBreaksByScore(t *testing.T) {
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := []models.Game{
		{ID: 2, Rating: 2.0, Tags: makeTags(1, 2, 3, 4)},
		{ID: 3, Rating: 4.8, Tags: makeTags(1, 2, 3, 4)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Game.ID != 3 {
		t.Errorf("first result ID = %d, want 3 (higher score wins the tie)", recs[0].Game.ID)
	}
}

func TestScoreStableForExactTies(t *testing.T) {
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := []models.Game{
		{ID: 10, Rating: 4.0, Tags: makeTags(1, 2, 3, 4)},
		{ID: 11, Rating: 4.0, Tags: makeTags(1, 2, 3, 4)},
		{ID: 12, Rating: 4.0, Tags: makeTags(1, 2, 3, 4)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	for i, wantID := range []int{10, 11, 12} {
		if recs[i].Game.ID != wantID {
			t.Errorf("position %d: ID = %d, want %d (fetch order preserved)", i, recs[i].Game.ID, wantID)
		}
	}
}

func TestScoreDropsWeakMatches(t *testing.T) {
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4, 5)}
	candidates := []models.Game{
		{ID: 2, Tags: makeTags(1, 2, 3)},       // 3 shared, below threshold
		{ID: 3, Tags: makeTags(1, 2, 3, 4)},    // 4 shared, kept
		{ID: 4, Tags: makeTags(8, 9)},          // nothing shared
		{ID: 5, Tags: makeTags(1, 2, 3, 4, 5)}, // all shared, kept
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	for _, rec := range recs {
		if rec.MatchingTags() < 4 {
			t.Errorf("candidate %d kept with only %d matching tags", rec.Game.ID, rec.MatchingTags())
		}
	}
}

func TestScoreSkipsSourceGame(t *testing.T) {
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := []models.Game{
		{ID: 1, Tags: makeTags(1, 2, 3, 4)}, // the source itself
		{ID: 2, Tags: makeTags(1, 2, 3, 4)},
	}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 1 || recs[0].Game.ID != 2 {
		t.Errorf("source game should never recommend itself: %+v", recs)
	}
}

func TestScoreTruncatesToMaxResults(t *testing.T) {
	source := &models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}
	candidates := make([]models.Game, 0, 20)
	for i := 0; i < 20; i++ {
		candidates = append(candidates, models.Game{ID: 100 + i, Tags: makeTags(1, 2, 3, 4)})
	}

	recs := Score(source, candidates, 4, 5)
	if len(recs) != 5 {
		t.Errorf("got %d recommendations, want 5", len(recs))
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	candidates := []models.Game{{ID: 2, Tags: makeTags(1, 2, 3, 4)}}

	if recs := Score(nil, candidates, 4, 12); len(recs) != 0 {
		t.Errorf("nil source: got %d recommendations, want 0", len(recs))
	}
	if recs := Score(&models.Game{ID: 1}, candidates, 4, 12); len(recs) != 0 {
		t.Errorf("tagless source: got %d recommendations, want 0", len(recs))
	}
	if recs := Score(&models.Game{ID: 1, Tags: makeTags(1, 2, 3, 4)}, nil, 4, 12); len(recs) != 0 {
		t.Errorf("no candidates: got %d recommendations, want 0", len(recs))
	}
}

func TestMatchedTagsAndReason(t *testing.T) {
	source := &models.Game{ID: 1, Tags: []models.Tag{
		{ID: 1, Name: "Roguelike"},
		{ID: 2, Name: "Pixel Graphics"},
		{ID: 3, Name: "Permadeath"},
		{ID: 4, Name: "Procedural Generation"},
		{ID: 5, Name: "Indie"},
	}}
	candidates := []models.Game{{ID: 2, Tags: []models.Tag{
		{ID: 1, Name: "Roguelike"},
		{ID: 3, Name: "Permadeath"},
		{ID: 4, Name: "Procedural Generation"},
		{ID: 5, Name: "Indie"},
		{ID: 9, Name: "Co-op"},
	}}}

	recs := Score(source, candidates, 4, 12)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	if recs[0].MatchReason != "Matched 4 of 5 tags" {
		t.Errorf("match reason = %q, want %q", recs[0].MatchReason, "Matched 4 of 5 tags")
	}

	wantNames := []string{"Roguelike", "Permadeath", "Procedural Generation", "Indie"}
	if len(recs[0].MatchedTags) != len(wantNames) {
		t.Fatalf("got %d matched tags, want %d", len(recs[0].MatchedTags), len(wantNames))
	}
	for i, want := range wantNames {
		if recs[0].MatchedTags[i].Name != want {
			t.Errorf("matched tag %d = %q, want %q", i, recs[0].MatchedTags[i].Name, want)
		}
	}
	if strings.Contains(recs[0].MatchReason, "Co-op") {
		t.Error("unshared tag leaked into the match reason")
	}
}
