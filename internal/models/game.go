// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

// Package models defines the entities shared across the Tagwise service:
// catalog games, their tags and genres, and the JSON envelopes exchanged
// with the remote catalog API and with API clients.
package models

// Tag is a short labeled attribute of a game. Tags are the unit of
// similarity comparison: two games are alike to the degree their tag
// ID sets overlap.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genre is a coarse category assigned by the catalog. Genres are only
// consulted by the content filter, never by scoring.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Game is a single catalog entry. The ID is unique within the catalog
// and is the deduplication key when the same game appears on multiple
// fetched pages.
type Game struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// Rating is the catalog's community rating on a 0-5 scale.
	Rating float64 `json:"rating"`

	// Added counts how many catalog users added the game to a library.
	// The field may be absent in API responses, which decodes to 0.
	Added int `json:"added"`

	Released        string `json:"released,omitempty"`
	BackgroundImage string `json:"background_image,omitempty"`

	Tags   []Tag   `json:"tags"`
	Genres []Genre `json:"genres"`
}

// TagIDs returns the IDs of the game's tags in their original order.
func (g *Game) TagIDs() []int {
	ids := make([]int, 0, len(g.Tags))
	for _, t := range g.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// GamesPage is the paginated envelope the catalog API wraps game lists in.
type GamesPage struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []Game `json:"results"`
}
