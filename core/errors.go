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

import "errors"

// Domain validation errors
var (
	// ErrNodeNotFound indicates a referenced concept id does not exist in the tree.
	ErrNodeNotFound = errors.New("concept not found")

	// ErrUnknownParent indicates a parent id that does not resolve to a node.
	ErrUnknownParent = errors.New("unknown parent concept")

	// ErrCycle indicates a move that would make a node its own ancestor.
	ErrCycle = errors.New("move would create a cycle")

	// ErrImportFormat indicates a malformed or structurally invalid ontology document.
	ErrImportFormat = errors.New("invalid ontology document")

	// ErrInvalidTree indicates a Tree that violates a structural invariant.
	ErrInvalidTree = errors.New("invalid ontology tree")

	// ErrEmptyLabel indicates a concept label that is empty after normalization.
	ErrEmptyLabel = errors.New("label cannot be empty")

	// ErrInvalidNote indicates a Note failed validation.
	ErrInvalidNote = errors.New("invalid note")

	// ErrEmptyNote indicates a note with neither title nor content.
	ErrEmptyNote = errors.New("note must have a title or content")

	// ErrInvalidStatus indicates an invalid NoteStatus value.
	ErrInvalidStatus = errors.New("invalid note status")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
