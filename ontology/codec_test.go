package ontology

import (
	"testing"

	"github.com/poiesic/ontonote/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	tree, _ := buildTree(t)

	text, err := ExportJSON(tree)
	require.NoError(t, err)

	restored, err := ImportJSON(text)
	require.NoError(t, err)

	assert.Equal(t, tree.RootIds, restored.RootIds)
	assert.True(t, tree.UpdatedAt.Equal(restored.UpdatedAt))
	require.Len(t, restored.Nodes, len(tree.Nodes))
	for id, node := range tree.Nodes {
		got, ok := restored.Nodes[id]
		require.True(t, ok, "node %s missing after round trip", id)
		assert.Equal(t, node.Label, got.Label)
		assert.Equal(t, node.ParentId, got.ParentId)
		assert.Equal(t, node.ChildIds, got.ChildIds)
	}

	// Structural equality shows up as fingerprint equality.
	fp1, err := Fingerprint(tree)
	require.NoError(t, err)
	fp2, err := Fingerprint(restored)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestImportJSON(t *testing.T) {
	t.Run("malformed document", func(t *testing.T) {
		_, err := ImportJSON("{not json")
		assert.ErrorIs(t, err, core.ErrImportFormat)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := ImportJSON(`{"nodes": [1, 2, 3]}`)
		assert.ErrorIs(t, err, core.ErrImportFormat)
	})

	t.Run("invariant violation rejected", func(t *testing.T) {
		// Child list points at a node whose parent is someone else.
		doc := `{
			"nodes": {
				"a": {"id": "a", "label": "#A", "childIds": ["b"]},
				"b": {"id": "b", "label": "#B", "parentId": "x", "childIds": []}
			},
			"rootIds": ["a"]
		}`
		_, err := ImportJSON(doc)
		assert.ErrorIs(t, err, core.ErrImportFormat)
	})

	t.Run("empty document yields empty tree", func(t *testing.T) {
		tree, err := ImportJSON(`{}`)
		require.NoError(t, err)
		assert.Empty(t, tree.Nodes)
		assert.Empty(t, tree.RootIds)
	})
}

func TestFingerprint(t *testing.T) {
	tree, ids := buildTree(t)

	fp1, err := Fingerprint(tree)
	require.NoError(t, err)
	assert.Len(t, fp1, 16)

	next, err := RemoveNode(tree, ids["#Cooking"])
	require.NoError(t, err)

	fp2, err := Fingerprint(next)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}
