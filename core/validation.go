// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateNode validates a concept node according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Label must be non-empty and start with "#" or "@"
//
// NOT validated (owned by the tree):
//   - ParentId resolution
//   - ChildIds consistency
func ValidateNode(node *Node) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidTree)
	}
	if node.Id == "" {
		return fmt.Errorf("%w: node has empty id", ErrInvalidTree)
	}
	if node.Label == "" {
		return ErrEmptyLabel
	}
	if node.Label[0] != '#' && node.Label[0] != '@' {
		return fmt.Errorf("%w: label %q missing # or @ prefix", ErrEmptyLabel, node.Label)
	}
	return nil
}

// ValidateTree checks the structural invariants of an ontology tree:
//
//  1. Every id in every ChildIds list exists and that node's ParentId
//     points back at the owning node.
//  2. RootIds is exactly the set of nodes with an empty ParentId.
//  3. The parent graph is acyclic.
//  4. Node ids are unique and every node's Id matches its map key.
//
// Returns an error wrapping ErrInvalidTree describing the first violation found.
func ValidateTree(tree *Tree) error {
	if tree == nil {
		return fmt.Errorf("%w: tree is nil", ErrInvalidTree)
	}
	if tree.Nodes == nil {
		return fmt.Errorf("%w: nodes map is nil", ErrInvalidTree)
	}

	for id, node := range tree.Nodes {
		if err := ValidateNode(node); err != nil {
			return fmt.Errorf("%w: node %s: %w", ErrInvalidTree, id, err)
		}
		if node.Id != id {
			return fmt.Errorf("%w: node keyed %s has id %s", ErrInvalidTree, id, node.Id)
		}
		if node.ParentId != "" {
			if _, ok := tree.Nodes[node.ParentId]; !ok {
				return fmt.Errorf("%w: node %s references missing parent %s", ErrInvalidTree, id, node.ParentId)
			}
		}
	}

	// Invariant 1: ChildIds lists mirror the ParentId back-references exactly.
	for id, node := range tree.Nodes {
		seen := make(map[ID]bool, len(node.ChildIds))
		for _, childId := range node.ChildIds {
			child, ok := tree.Nodes[childId]
			if !ok {
				return fmt.Errorf("%w: node %s lists missing child %s", ErrInvalidTree, id, childId)
			}
			if child.ParentId != id {
				return fmt.Errorf("%w: node %s lists child %s whose parent is %q", ErrInvalidTree, id, childId, child.ParentId)
			}
			if seen[childId] {
				return fmt.Errorf("%w: node %s lists child %s twice", ErrInvalidTree, id, childId)
			}
			seen[childId] = true
		}
	}
	for id, node := range tree.Nodes {
		if node.ParentId == "" {
			continue
		}
		parent := tree.Nodes[node.ParentId]
		found := false
		for _, childId := range parent.ChildIds {
			if childId == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: node %s missing from parent %s child list", ErrInvalidTree, id, node.ParentId)
		}
	}

	// Invariant 2: RootIds is exactly the set of parentless nodes.
	rootSeen := make(map[ID]bool, len(tree.RootIds))
	for _, rootId := range tree.RootIds {
		node, ok := tree.Nodes[rootId]
		if !ok {
			return fmt.Errorf("%w: root id %s not in nodes", ErrInvalidTree, rootId)
		}
		if node.ParentId != "" {
			return fmt.Errorf("%w: root id %s has parent %s", ErrInvalidTree, rootId, node.ParentId)
		}
		if rootSeen[rootId] {
			return fmt.Errorf("%w: root id %s listed twice", ErrInvalidTree, rootId)
		}
		rootSeen[rootId] = true
	}
	for id, node := range tree.Nodes {
		if node.ParentId == "" && !rootSeen[id] {
			return fmt.Errorf("%w: parentless node %s missing from root ids", ErrInvalidTree, id)
		}
	}

	// Invariant 3: the parent chain from any node terminates at a root.
	for id := range tree.Nodes {
		visited := make(map[ID]bool)
		current := id
		for current != "" {
			if visited[current] {
				return fmt.Errorf("%w: cycle through node %s", ErrInvalidTree, id)
			}
			visited[current] = true
			current = tree.Nodes[current].ParentId
		}
	}

	return nil
}

// ValidateNote validates a Note according to domain rules.
//
// Validation rules:
//   - Title or Content must be non-empty
//   - Status must be valid
//   - CreatedAt must not be in the future
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the index pipeline runs)
//   - Tags (free labels, matched against the ontology at search time)
func ValidateNote(note *Note) error {
	if note == nil {
		return fmt.Errorf("%w: note is nil", ErrInvalidNote)
	}

	if note.Title == "" && note.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrEmptyNote)
	}

	if err := ValidateStatus(note.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNote, err)
	}

	if !note.CreatedAt.IsZero() && !IsValidTimestamp(note.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidNote, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateStatus validates that a NoteStatus has a valid value.
func ValidateStatus(status NoteStatus) error {
	if status != NoteStatusActive && status != NoteStatusArchived {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
