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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/ontonote/core"
)

// Stored values use the same self-describing JSON encoding as the
// import/export contract, so a tree snapshot read straight from the store
// is a valid interchange document.

// MarshalNote serializes a Note to bytes.
func MarshalNote(note *core.Note) ([]byte, error) {
	data, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalNote deserializes a Note from bytes.
func UnmarshalNote(data []byte) (*core.Note, error) {
	var note core.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &note, nil
}

// MarshalTree serializes a Tree snapshot to bytes.
func MarshalTree(tree *core.Tree) ([]byte, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalTree deserializes a Tree snapshot from bytes.
func UnmarshalTree(data []byte) (*core.Tree, error) {
	var tree core.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if tree.Nodes == nil {
		tree.Nodes = map[core.ID]*core.Node{}
	}
	if tree.RootIds == nil {
		tree.RootIds = []core.ID{}
	}
	return &tree, nil
}
