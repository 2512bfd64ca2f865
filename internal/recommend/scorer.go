// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package recommend

import (
	"fmt"
	"sort"

	"github.com/dmarceau/tagwise/internal/models"
)

// Scoring weights and modifiers. The overlap component rewards covering
// the source game's tags; the Jaccard component penalizes candidates
// whose tag sets are much larger than the intersection. The rating
// modifier nudges equally-similar candidates apart by quality without
// letting rating dominate similarity.
const (
	overlapWeight = 0.6
	jaccardWeight = 0.4

	ratingBaseline = 3.0
	ratingDivisor  = 50.0
)

// Score ranks candidates by tag similarity with the source game.
//
// Candidates sharing fewer than minMatchingTags tags with the source are
// dropped, as is the source itself and any tagless candidate. Results
// are ordered by shared tag count descending, then composite score
// descending; the sort is stable so equally-ranked candidates keep their
// fetch order. At most maxResults entries are returned.
//
// Score is a pure function: it never mutates its inputs and performs no
// I/O, so it is safe to call concurrently.
func Score(source *models.Game, candidates []models.Game, minMatchingTags, maxResults int) []Recommendation {
	if source == nil || len(source.Tags) == 0 || maxResults <= 0 {
		return []Recommendation{}
	}

	sourceTagIDs := make(map[int]struct{}, len(source.Tags))
	for _, tag := range source.Tags {
		sourceTagIDs[tag.ID] = struct{}{}
	}

	recs := make([]Recommendation, 0, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID == source.ID || len(candidate.Tags) == 0 {
			continue
		}

		matched := matchedTags(sourceTagIDs, candidate.Tags)
		if len(matched) < minMatchingTags {
			continue
		}

		recs = append(recs, Recommendation{
			Game:        *candidate,
			Score:       compositeScore(len(matched), len(source.Tags), len(candidate.Tags), candidate.Rating),
			MatchedTags: matched,
			MatchReason: fmt.Sprintf("Matched %d of %d tags", len(matched), len(source.Tags)),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if len(recs[i].MatchedTags) != len(recs[j].MatchedTags) {
			return len(recs[i].MatchedTags) > len(recs[j].MatchedTags)
		}
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > maxResults {
		recs = recs[:maxResults]
	}

	return recs
}

// matchedTags returns the candidate's tags whose IDs also appear in the
// source tag set, in the candidate's tag order.
func matchedTags(sourceTagIDs map[int]struct{}, candidateTags []models.Tag) []models.Tag {
	var matched []models.Tag
	for _, tag := range candidateTags {
		if _, ok := sourceTagIDs[tag.ID]; ok {
			matched = append(matched, tag)
		}
	}
	return matched
}

// compositeScore computes the similarity score for one candidate:
//
//	(0.6*overlap + 0.4*jaccard) * (1 + (rating-3.0)/50.0)
//
// where overlap is the fraction of source tags covered and jaccard is
// intersection over union of the two tag sets.
func compositeScore(matching, sourceCount, candidateCount int, rating float64) float64 {
	overlap := float64(matching) / float64(sourceCount)

	union := sourceCount + candidateCount - matching
	jaccard := 0.0
	if union > 0 {
		jaccard = float64(matching) / float64(union)
	}

	similarity := overlapWeight*overlap + jaccardWeight*jaccard
	ratingModifier := 1.0 + (rating-ratingBaseline)/ratingDivisor

	return similarity * ratingModifier
}
