package ontology

import "github.com/poiesic/ontonote/core"

// SemanticMatches returns the set of labels a tag search for label should
// match: the label itself plus the labels of every transitive descendant
// of each node carrying that label. Matching is by label, not id, so if
// several nodes share a label their descendant sets are unioned. Ancestors
// are never included: a broad concept subsumes its narrower descendants,
// not the reverse.
//
// If no node carries the label the result is the singleton {label}, so tag
// search degrades to exact match on unknown or free tags.
//
// Traversal keeps a visited set and terminates even on a tree whose child
// references were corrupted into a cycle, rather than trusting the store's
// invariants blindly.
func SemanticMatches(tree *core.Tree, label string) map[string]bool {
	matches := map[string]bool{label: true}
	if tree == nil || len(tree.Nodes) == 0 {
		return matches
	}

	visited := make(map[core.ID]bool)
	var stack []core.ID
	for id, node := range tree.Nodes {
		if node.Label == label {
			stack = append(stack, id)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := tree.Nodes[id]
		if !ok {
			continue
		}
		matches[node.Label] = true
		stack = append(stack, node.ChildIds...)
	}

	return matches
}
