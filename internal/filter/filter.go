// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package filter implements the content-safety and tag-quality filter
// applied to every game before it leaves the catalog boundary or enters
// the recommendation pipeline.
//
// A game is disallowed when any of its tag IDs is on the blocked list,
// or when a blocked keyword occurs in its name, any tag name, or any
// genre name. Surviving games additionally have their tags cleaned:
// empty, whitespace-only, and non-Latin-script tag names are removed so
// they never participate in similarity scoring.
//
// All functions are pure: no I/O, no mutation of inputs.
package filter

import (
	"strings"
	"unicode"

	"github.com/dmarceau/tagwise/internal/models"
)

// disallowedTagIDs are catalog tag IDs that mark adult-only content.
var disallowedTagIDs = map[int]struct{}{
	42:   {}, // NSFW
	96:   {}, // Sexual Content
	97:   {}, // Nudity
	222:  {}, // Hentai
	398:  {}, // Adult
	1070: {}, // Erotic
}

// disallowedKeywords are matched case-insensitively as substrings of
// game names, tag names, and genre names.
var disallowedKeywords = []string{
	"nsfw",
	"hentai",
	"erotic",
	"adult only",
	"sexual content",
	"nudity",
	"porn",
	"xxx",
	"18+",
	"mature content",
}

// keywords is the shared matcher over disallowedKeywords. Built once at
// package initialization; immutable and safe for concurrent use.
var keywords = newKeywordMatcher(disallowedKeywords)

// IsDisallowed reports whether the game must be excluded from all
// surfaces: search results, lookups, and recommendation pools.
func IsDisallowed(game *models.Game) bool {
	if game == nil {
		return false
	}

	for _, tag := range game.Tags {
		if _, blocked := disallowedTagIDs[tag.ID]; blocked {
			return true
		}
		if keywords.Contains(tag.Name) {
			return true
		}
	}

	if keywords.Contains(game.Name) {
		return true
	}

	for _, genre := range game.Genres {
		if keywords.Contains(genre.Name) {
			return true
		}
	}

	return false
}

// FilterAndClean removes disallowed games and strips unusable tags from
// the survivors. The input slice and its games are never modified;
// surviving games are returned as copies with freshly built tag slices.
// The operation is idempotent.
func FilterAndClean(games []models.Game) []models.Game {
	out := make([]models.Game, 0, len(games))

	for i := range games {
		if IsDisallowed(&games[i]) {
			continue
		}

		cleaned := games[i]
		cleaned.Tags = cleanTags(games[i].Tags)
		out = append(out, cleaned)
	}

	return out
}

// cleanTags returns a new slice holding only tags usable for similarity
// comparison: non-empty, non-whitespace, Latin-script names.
func cleanTags(tags []models.Tag) []models.Tag {
	out := make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag.Name) == "" {
			continue
		}
		if !IsEnglish(tag.Name) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// IsEnglish reports whether a name is written in a Latin script the
// comparison logic can work with. Every character must be an ASCII
// letter, digit, whitespace, hyphen, period, apostrophe, colon, or an
// accented Latin-1 letter. A single character outside this set (for
// example Cyrillic or CJK) rejects the whole string. The empty string
// is not admissible.
func IsEnglish(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r <= unicode.MaxASCII && unicode.IsSpace(r):
		case r == '-' || r == '.' || r == '\'' || r == ':':
		// Latin-1 supplement letters (À-ÿ), excluding the multiplication
		// and division signs embedded in that block.
		case r >= 0x00C0 && r <= 0x00FF && r != 0x00D7 && r != 0x00F7:
		default:
			return false
		}
	}

	return true
}
