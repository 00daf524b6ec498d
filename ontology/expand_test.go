package ontology

import (
	"testing"

	"github.com/poiesic/ontonote/core"
	"github.com/stretchr/testify/assert"
)

func TestSemanticMatches(t *testing.T) {
	tree, _ := buildTree(t)

	t.Run("root label includes all descendants", func(t *testing.T) {
		matches := SemanticMatches(tree, "#AI")
		assert.Equal(t, map[string]bool{
			"#AI":              true,
			"#MachineLearning": true,
			"#NLP":             true,
			"#Robotics":        true,
		}, matches)
	})

	t.Run("mid-tree label includes its subtree only", func(t *testing.T) {
		matches := SemanticMatches(tree, "#MachineLearning")
		assert.Equal(t, map[string]bool{
			"#MachineLearning": true,
			"#NLP":             true,
		}, matches)
	})

	t.Run("leaf label matches itself only", func(t *testing.T) {
		matches := SemanticMatches(tree, "#NLP")
		assert.Equal(t, map[string]bool{"#NLP": true}, matches)
	})

	t.Run("ancestors never included", func(t *testing.T) {
		matches := SemanticMatches(tree, "#Robotics")
		assert.NotContains(t, matches, "#AI")
	})

	t.Run("unknown label degrades to singleton", func(t *testing.T) {
		matches := SemanticMatches(tree, "#Gardening")
		assert.Equal(t, map[string]bool{"#Gardening": true}, matches)
	})

	t.Run("nil tree degrades to singleton", func(t *testing.T) {
		matches := SemanticMatches(nil, "#AI")
		assert.Equal(t, map[string]bool{"#AI": true}, matches)
	})

	t.Run("duplicate labels union their subtrees", func(t *testing.T) {
		dup := &core.Tree{
			Nodes: map[core.ID]*core.Node{
				"a":  {Id: "a", Label: "#Lang", ChildIds: []core.ID{"a1"}},
				"a1": {Id: "a1", Label: "#Go", ParentId: "a"},
				"b":  {Id: "b", Label: "#Lang", ChildIds: []core.ID{"b1"}},
				"b1": {Id: "b1", Label: "#French", ParentId: "b"},
			},
			RootIds: []core.ID{"a", "b"},
		}

		matches := SemanticMatches(dup, "#Lang")
		assert.Equal(t, map[string]bool{
			"#Lang":   true,
			"#Go":     true,
			"#French": true,
		}, matches)
	})

	t.Run("terminates on corrupted child cycle", func(t *testing.T) {
		broken := &core.Tree{
			Nodes: map[core.ID]*core.Node{
				"a": {Id: "a", Label: "#A", ChildIds: []core.ID{"b"}},
				"b": {Id: "b", Label: "#B", ParentId: "a", ChildIds: []core.ID{"a"}},
			},
			RootIds: []core.ID{"a"},
		}

		matches := SemanticMatches(broken, "#A")
		assert.Equal(t, map[string]bool{"#A": true, "#B": true}, matches)
	})
}
