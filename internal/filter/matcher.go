// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package filter

import "strings"

// keywordMatcher finds occurrences of a fixed keyword set in a text using
// the Aho-Corasick algorithm. All keywords are matched case-insensitively
// as substrings. Matching runs in O(n + z) for a text of length n with z
// matches, independent of the number of keywords.
//
// The automaton is built once by newKeywordMatcher and is immutable
// afterwards, so it is safe for concurrent use without locking.
type keywordMatcher struct {
	root     *matcherNode
	keywords []string
}

// matcherNode is a node in the Aho-Corasick automaton.
type matcherNode struct {
	children map[rune]*matcherNode
	failure  *matcherNode
	output   []int // indices of keywords ending at this node
}

func newMatcherNode() *matcherNode {
	return &matcherNode{children: make(map[rune]*matcherNode)}
}

// newKeywordMatcher builds the automaton for the given keywords.
// Empty keywords are ignored.
func newKeywordMatcher(keywords []string) *keywordMatcher {
	m := &keywordMatcher{root: newMatcherNode()}

	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, kw)
	}

	for i, kw := range m.keywords {
		m.insert(i, strings.ToLower(kw))
	}
	m.buildFailureLinks()

	return m
}

// insert adds a single lowered keyword to the trie.
func (m *keywordMatcher) insert(index int, keyword string) {
	node := m.root
	for _, ch := range keyword {
		if node.children[ch] == nil {
			node.children[ch] = newMatcherNode()
		}
		node = node.children[ch]
	}
	node.output = append(node.output, index)
}

// buildFailureLinks wires the failure transitions using BFS, merging
// output sets along the way so suffix keywords are reported too.
func (m *keywordMatcher) buildFailureLinks() {
	queue := make([]*matcherNode, 0)
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}

			if fail == nil {
				child.failure = m.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// Match returns the first keyword found in text and true, or "" and
// false when no keyword occurs.
func (m *keywordMatcher) Match(text string) (string, bool) {
	if len(m.keywords) == 0 || text == "" {
		return "", false
	}

	node := m.root
	for _, ch := range strings.ToLower(text) {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]

		if len(node.output) > 0 {
			return m.keywords[node.output[0]], true
		}
	}

	return "", false
}

// Contains reports whether any keyword occurs in text.
func (m *keywordMatcher) Contains(text string) bool {
	_, ok := m.Match(text)
	return ok
}
