// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package filter

import "testing"

func TestKeywordMatcher(t *testing.T) {
	m := newKeywordMatcher([]string{"nsfw", "adult only", "18+"})

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"exact match", "nsfw", true},
		{"case-insensitive", "NSFW", true},
		{"substring", "totally nsfw content", true},
		{"multi-word keyword", "rated Adult Only here", true},
		{"symbol keyword", "for 18+ audiences", true},
		{"no match", "family friendly", false},
		{"partial keyword only", "nsf", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Contains(tt.text); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKeywordMatcherMatchReturnsKeyword(t *testing.T) {
	m := newKeywordMatcher([]string{"porn", "xxx"})

	kw, ok := m.Match("some xxx title")
	if !ok {
		t.Fatal("expected a match")
	}
	if kw != "xxx" {
		t.Errorf("Match returned %q, want %q", kw, "xxx")
	}
}

func TestKeywordMatcherOverlappingKeywords(t *testing.T) {
	// "content" is a suffix of "sexual content"; both must be found via
	// failure links.
	m := newKeywordMatcher([]string{"sexual content", "content"})

	if !m.Contains("has sexual content inside") {
		t.Error("expected overlap text to match")
	}
	if !m.Contains("just content") {
		t.Error("expected suffix keyword to match")
	}
}

func TestKeywordMatcherEmptySet(t *testing.T) {
	m := newKeywordMatcher(nil)
	if m.Contains("anything") {
		t.Error("empty matcher must never match")
	}

	m = newKeywordMatcher([]string{""})
	if m.Contains("anything") {
		t.Error("empty keywords must be ignored")
	}
}
