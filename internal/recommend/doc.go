// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package recommend implements the tag-overlap recommendation pipeline:
// a batched concurrent candidate pool fetcher, a pure similarity scorer,
// and a caching engine that ties them together.
//
// The pipeline for one source game is: fetch pages of games sharing any
// of the source's tags (batched, paced, deduplicated), score every
// candidate by tag overlap with the source, drop weak matches, rank, and
// memoize the ranked list for the configured TTL.
package recommend
