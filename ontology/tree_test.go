package ontology

import (
	"testing"
	"time"

	"github.com/poiesic/ontonote/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// structuralFingerprint digests a tree with its modification time zeroed,
// so trees built at different moments still compare equal by structure.
func structuralFingerprint(t *testing.T, tree *core.Tree) string {
	t.Helper()

	frozen := *tree
	frozen.UpdatedAt = time.Time{}
	fp, err := Fingerprint(&frozen)
	require.NoError(t, err)
	return fp
}

// buildTree assembles a small ontology:
//
//	#AI
//	├── #MachineLearning
//	│   └── #NLP
//	└── #Robotics
//	#Cooking
//
// Returns the tree and the node ids keyed by label.
func buildTree(t *testing.T) (*core.Tree, map[string]core.ID) {
	t.Helper()

	tree := NewTree()
	ids := map[string]core.ID{}

	add := func(label string, parent string) {
		node, err := NewNode(label, ids[parent], nil)
		require.NoError(t, err)
		next, err := AddNode(tree, node)
		require.NoError(t, err)
		tree = next
		ids[label] = node.Id
	}

	add("#AI", "")
	add("#MachineLearning", "#AI")
	add("#NLP", "#MachineLearning")
	add("#Robotics", "#AI")
	add("#Cooking", "")

	require.NoError(t, core.ValidateTree(tree))
	return tree, ids
}

func TestNewNode(t *testing.T) {
	t.Run("normalizes bare label", func(t *testing.T) {
		node, err := NewNode("AI", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "#AI", node.Label)
		assert.NotEmpty(t, node.Id)
	})

	t.Run("keeps entity marker", func(t *testing.T) {
		node, err := NewNode("@Alice", "", nil)
		require.NoError(t, err)
		assert.Equal(t, "@Alice", node.Label)
	})

	t.Run("rejects empty label", func(t *testing.T) {
		_, err := NewNode("   ", "", nil)
		assert.ErrorIs(t, err, core.ErrEmptyLabel)
	})

	t.Run("copies attributes", func(t *testing.T) {
		attrs := map[string]string{"color": "blue"}
		node, err := NewNode("#AI", "", attrs)
		require.NoError(t, err)

		attrs["color"] = "red"
		assert.Equal(t, "blue", node.Attributes["color"])
	})
}

func TestAddNode(t *testing.T) {
	t.Run("adds root node", func(t *testing.T) {
		tree := NewTree()
		node, err := NewNode("#AI", "", nil)
		require.NoError(t, err)

		next, err := AddNode(tree, node)
		require.NoError(t, err)

		assert.Contains(t, next.Nodes, node.Id)
		assert.Equal(t, []core.ID{node.Id}, next.RootIds)
		assert.Empty(t, tree.Nodes, "input tree must stay untouched")
	})

	t.Run("adds child in order", func(t *testing.T) {
		tree, ids := buildTree(t)
		parent := ids["#AI"]

		node, err := NewNode("#Vision", parent, nil)
		require.NoError(t, err)
		next, err := AddNode(tree, node)
		require.NoError(t, err)

		children := next.Nodes[parent].ChildIds
		require.Len(t, children, 3)
		assert.Equal(t, node.Id, children[2], "new child appended last")
		assert.Len(t, tree.Nodes[parent].ChildIds, 2, "input tree must stay untouched")
	})

	t.Run("unknown parent", func(t *testing.T) {
		tree := NewTree()
		node, err := NewNode("#AI", "missing", nil)
		require.NoError(t, err)

		_, err = AddNode(tree, node)
		assert.ErrorIs(t, err, core.ErrUnknownParent)
	})

	t.Run("duplicate id", func(t *testing.T) {
		tree, ids := buildTree(t)
		dup := &core.Node{Id: ids["#AI"], Label: "#Other"}

		_, err := AddNode(tree, dup)
		assert.ErrorIs(t, err, core.ErrInvalidTree)
	})
}

func TestRemoveNode(t *testing.T) {
	t.Run("children reparent to former parent", func(t *testing.T) {
		tree, ids := buildTree(t)

		next, err := RemoveNode(tree, ids["#MachineLearning"])
		require.NoError(t, err)

		// #NLP hops up one level, appended after the surviving siblings.
		ai := next.Nodes[ids["#AI"]]
		assert.Equal(t, []core.ID{ids["#Robotics"], ids["#NLP"]}, ai.ChildIds)
		assert.Equal(t, ids["#AI"], next.Nodes[ids["#NLP"]].ParentId)
		assert.NotContains(t, next.Nodes, ids["#MachineLearning"])
		require.NoError(t, core.ValidateTree(next))
	})

	t.Run("removing a root promotes children", func(t *testing.T) {
		tree, ids := buildTree(t)

		next, err := RemoveNode(tree, ids["#AI"])
		require.NoError(t, err)

		assert.Equal(t, []core.ID{ids["#Cooking"], ids["#MachineLearning"], ids["#Robotics"]}, next.RootIds)
		assert.Equal(t, core.ID(""), next.Nodes[ids["#MachineLearning"]].ParentId)
		require.NoError(t, core.ValidateTree(next))
	})

	t.Run("unknown node", func(t *testing.T) {
		tree, _ := buildTree(t)
		_, err := RemoveNode(tree, "missing")
		assert.ErrorIs(t, err, core.ErrNodeNotFound)
	})

	t.Run("input tree untouched", func(t *testing.T) {
		tree, ids := buildTree(t)
		before := len(tree.Nodes)

		_, err := RemoveNode(tree, ids["#AI"])
		require.NoError(t, err)
		assert.Len(t, tree.Nodes, before)
	})
}

func TestUpdateNode(t *testing.T) {
	t.Run("relabel only", func(t *testing.T) {
		tree, ids := buildTree(t)
		label := "DeepLearning"

		next, err := UpdateNode(tree, ids["#MachineLearning"], NodeUpdate{Label: &label})
		require.NoError(t, err)

		updated := next.Nodes[ids["#MachineLearning"]]
		assert.Equal(t, "#DeepLearning", updated.Label)
		assert.Equal(t, tree.Nodes[ids["#MachineLearning"]].ChildIds, updated.ChildIds)
		assert.Equal(t, "#MachineLearning", tree.Nodes[ids["#MachineLearning"]].Label)
	})

	t.Run("nil attributes leave attributes unchanged", func(t *testing.T) {
		tree := NewTree()
		node, err := NewNode("#AI", "", map[string]string{"color": "blue"})
		require.NoError(t, err)
		tree, err = AddNode(tree, node)
		require.NoError(t, err)

		label := "#Intelligence"
		next, err := UpdateNode(tree, node.Id, NodeUpdate{Label: &label})
		require.NoError(t, err)
		assert.Equal(t, "blue", next.Nodes[node.Id].Attributes["color"])
	})

	t.Run("non-nil attributes replace wholesale", func(t *testing.T) {
		tree := NewTree()
		node, err := NewNode("#AI", "", map[string]string{"color": "blue", "icon": "robot"})
		require.NoError(t, err)
		tree, err = AddNode(tree, node)
		require.NoError(t, err)

		next, err := UpdateNode(tree, node.Id, NodeUpdate{Attributes: map[string]string{"color": "red"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"color": "red"}, next.Nodes[node.Id].Attributes)
	})

	t.Run("same update applied twice is idempotent", func(t *testing.T) {
		tree, ids := buildTree(t)
		label := "DeepLearning"
		update := NodeUpdate{Label: &label, Attributes: map[string]string{"color": "blue"}}

		first, err := UpdateNode(tree, ids["#MachineLearning"], update)
		require.NoError(t, err)
		second, err := UpdateNode(tree, ids["#MachineLearning"], update)
		require.NoError(t, err)
		assert.Equal(t, structuralFingerprint(t, first), structuralFingerprint(t, second),
			"same update on the same input must produce the same structure")

		again, err := UpdateNode(first, ids["#MachineLearning"], update)
		require.NoError(t, err)
		assert.Equal(t, structuralFingerprint(t, first), structuralFingerprint(t, again),
			"reapplying an update must not change the structure further")
	})

	t.Run("empty label rejected", func(t *testing.T) {
		tree, ids := buildTree(t)
		label := "  "
		_, err := UpdateNode(tree, ids["#AI"], NodeUpdate{Label: &label})
		assert.ErrorIs(t, err, core.ErrEmptyLabel)
	})

	t.Run("unknown node", func(t *testing.T) {
		tree, _ := buildTree(t)
		label := "#X"
		_, err := UpdateNode(tree, "missing", NodeUpdate{Label: &label})
		assert.ErrorIs(t, err, core.ErrNodeNotFound)
	})
}

func TestMoveNode(t *testing.T) {
	t.Run("move to new parent at position", func(t *testing.T) {
		tree, ids := buildTree(t)

		next, err := MoveNode(tree, ids["#NLP"], ids["#AI"], 0)
		require.NoError(t, err)

		ai := next.Nodes[ids["#AI"]]
		assert.Equal(t, []core.ID{ids["#NLP"], ids["#MachineLearning"], ids["#Robotics"]}, ai.ChildIds)
		assert.Empty(t, next.Nodes[ids["#MachineLearning"]].ChildIds)
		require.NoError(t, core.ValidateTree(next))
	})

	t.Run("move to root level", func(t *testing.T) {
		tree, ids := buildTree(t)

		next, err := MoveNode(tree, ids["#Robotics"], "", 1)
		require.NoError(t, err)

		assert.Equal(t, []core.ID{ids["#AI"], ids["#Robotics"], ids["#Cooking"]}, next.RootIds)
		assert.Equal(t, core.ID(""), next.Nodes[ids["#Robotics"]].ParentId)
		require.NoError(t, core.ValidateTree(next))
	})

	t.Run("position clamped", func(t *testing.T) {
		tree, ids := buildTree(t)

		next, err := MoveNode(tree, ids["#Cooking"], ids["#AI"], 99)
		require.NoError(t, err)

		ai := next.Nodes[ids["#AI"]]
		assert.Equal(t, ids["#Cooking"], ai.ChildIds[len(ai.ChildIds)-1])
		require.NoError(t, core.ValidateTree(next))
	})

	t.Run("self parent rejected", func(t *testing.T) {
		tree, ids := buildTree(t)
		_, err := MoveNode(tree, ids["#AI"], ids["#AI"], 0)
		assert.ErrorIs(t, err, core.ErrCycle)
	})

	t.Run("descendant parent rejected without mutation", func(t *testing.T) {
		tree, ids := buildTree(t)

		_, err := MoveNode(tree, ids["#AI"], ids["#NLP"], 0)
		assert.ErrorIs(t, err, core.ErrCycle)

		// Input tree must still be fully intact.
		require.NoError(t, core.ValidateTree(tree))
		assert.Equal(t, core.ID(""), tree.Nodes[ids["#AI"]].ParentId)
	})

	t.Run("unknown node or parent", func(t *testing.T) {
		tree, ids := buildTree(t)

		_, err := MoveNode(tree, "missing", ids["#AI"], 0)
		assert.ErrorIs(t, err, core.ErrNodeNotFound)

		_, err = MoveNode(tree, ids["#NLP"], "missing", 0)
		assert.ErrorIs(t, err, core.ErrNodeNotFound)
	})
}

func TestChildNodes(t *testing.T) {
	tree, ids := buildTree(t)

	t.Run("roots for empty parent id", func(t *testing.T) {
		roots := ChildNodes(tree, "")
		require.Len(t, roots, 2)
		assert.Equal(t, "#AI", roots[0].Label)
		assert.Equal(t, "#Cooking", roots[1].Label)
	})

	t.Run("ordered children", func(t *testing.T) {
		children := ChildNodes(tree, ids["#AI"])
		require.Len(t, children, 2)
		assert.Equal(t, "#MachineLearning", children[0].Label)
		assert.Equal(t, "#Robotics", children[1].Label)
	})

	t.Run("leaf has no children", func(t *testing.T) {
		assert.Empty(t, ChildNodes(tree, ids["#NLP"]))
	})

	t.Run("unknown parent yields empty", func(t *testing.T) {
		assert.Empty(t, ChildNodes(tree, "missing"))
	})
}
