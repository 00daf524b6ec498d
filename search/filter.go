package search

import (
	"strings"

	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/ontology"
)

// FilterByTags returns the notes whose tag set intersects the semantic
// expansion of the selected label. The selected label is expanded through
// the ontology first, so a broad concept matches notes tagged with any of
// its descendants. Tag comparison is case-insensitive.
func FilterByTags(notes []*core.Note, tree *core.Tree, selectedLabel string) []*core.Note {
	expanded := ontology.SemanticMatches(tree, selectedLabel)
	return filterByExpanded(notes, expanded)
}

// filterByExpanded keeps the notes whose tags intersect the expanded label
// set, compared case-insensitively.
func filterByExpanded(notes []*core.Note, expanded map[string]bool) []*core.Note {
	lowered := make(map[string]bool, len(expanded))
	for label := range expanded {
		lowered[strings.ToLower(label)] = true
	}

	filtered := make([]*core.Note, 0, len(notes))
	for _, note := range notes {
		for _, tag := range note.Tags {
			if lowered[strings.ToLower(tag)] {
				filtered = append(filtered, note)
				break
			}
		}
	}
	return filtered
}

// TextSearch narrows the candidate set to notes whose title or content
// contains the query as a case-insensitive substring. An empty query keeps
// every candidate. Ordering of the result is not part of the contract.
func TextSearch(notes []*core.Note, query string) []*core.Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes
	}

	filtered := make([]*core.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), query) ||
			strings.Contains(strings.ToLower(note.Content), query) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

// SharedTags returns the case-insensitive intersection of the two notes'
// tag sets, preserving the first note's casing and order. It is display
// annotation only and never feeds into ranking.
func SharedTags(note, candidate *core.Note) []string {
	candidateTags := make(map[string]bool, len(candidate.Tags))
	for _, tag := range candidate.Tags {
		candidateTags[strings.ToLower(tag)] = true
	}

	var shared []string
	seen := make(map[string]bool)
	for _, tag := range note.Tags {
		lowered := strings.ToLower(tag)
		if candidateTags[lowered] && !seen[lowered] {
			shared = append(shared, tag)
			seen[lowered] = true
		}
	}
	return shared
}
