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


package ontology

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/ontonote/core"
)

// ExportJSON serializes the whole tree to its interchange document: a JSON
// object with exactly three top-level fields (the nodes map, the root id
// list, and the updatedAt timestamp). The document round-trips losslessly
// through ImportJSON.
func ExportJSON(tree *core.Tree) (string, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportJSON parses an interchange document into a tree. It fails with
// core.ErrImportFormat if the text does not parse or if the parsed
// structure violates any tree invariant; a partially valid tree is never
// returned. Replacing the current tree with the result is the caller's
// responsibility.
func ImportJSON(text string) (*core.Tree, error) {
	var tree core.Tree
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrImportFormat, err)
	}
	if tree.Nodes == nil {
		tree.Nodes = map[core.ID]*core.Node{}
	}
	if tree.RootIds == nil {
		tree.RootIds = []core.ID{}
	}
	if err := core.ValidateTree(&tree); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrImportFormat, err)
	}
	return &tree, nil
}

// Fingerprint returns a short BLAKE2b digest of the canonical (compact)
// export of a tree. Two structurally equal trees produce the same digest,
// which makes snapshots cheap to compare across export and import.
func Fingerprint(tree *core.Tree) (string, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(core.DigestID(string(data))), nil
}
