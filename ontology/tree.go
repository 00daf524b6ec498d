package ontology

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/poiesic/ontonote/core"
)

// NewTree returns an empty ontology tree.
func NewTree() *core.Tree {
	return &core.Tree{
		Nodes:     map[core.ID]*core.Node{},
		RootIds:   []core.ID{},
		UpdatedAt: time.Now().UTC(),
	}
}

// NewNode creates a detached concept node with a fresh id.
// The label is normalized so a bare word defaults to a "#" topic tag.
// Attributes are copied; nil means no attributes. The node is not part
// of any tree until AddNode inserts it.
func NewNode(label string, parentId core.ID, attributes map[string]string) (*core.Node, error) {
	label = core.NormalizeLabel(label)
	if label == "" {
		return nil, core.ErrEmptyLabel
	}
	node := &core.Node{
		Id:       core.NewID(),
		Label:    label,
		ParentId: parentId,
	}
	if len(attributes) > 0 {
		node.Attributes = maps.Clone(attributes)
	}
	return node, nil
}

// AddNode inserts a detached node into the tree and returns the new tree value.
// The node id is appended to its parent's child list, or to the root list
// if it has no parent. Fails with core.ErrUnknownParent if the parent id
// does not resolve. The input tree is never modified.
func AddNode(tree *core.Tree, node *core.Node) (*core.Tree, error) {
	if err := core.ValidateNode(node); err != nil {
		return nil, err
	}
	if _, exists := tree.Nodes[node.Id]; exists {
		return nil, fmt.Errorf("%w: duplicate node id %s", core.ErrInvalidTree, node.Id)
	}
	if node.ParentId != "" {
		if _, ok := tree.Nodes[node.ParentId]; !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownParent, node.ParentId)
		}
	}

	next := clone(tree)
	inserted := *node
	inserted.ChildIds = nil // a detached node carries no children
	inserted.Attributes = maps.Clone(node.Attributes)
	next.Nodes[inserted.Id] = &inserted

	if inserted.ParentId == "" {
		next.RootIds = append(next.RootIds, inserted.Id)
	} else {
		parent := next.Nodes[inserted.ParentId]
		parent.ChildIds = append(parent.ChildIds, inserted.Id)
	}

	touch(next)
	return next, nil
}

// RemoveNode deletes a node and returns the new tree value.
// Every direct child of the removed node is reparented to the removed
// node's former parent, or promoted to root if the removed node was a
// root, preserving relative order and appended after any siblings already
// at that level. Fails with core.ErrNodeNotFound if the id is absent.
func RemoveNode(tree *core.Tree, nodeId core.ID) (*core.Tree, error) {
	if _, ok := tree.Nodes[nodeId]; !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, nodeId)
	}

	next := clone(tree)
	removed := next.Nodes[nodeId]
	delete(next.Nodes, nodeId)

	// Purge the removed id from its former level.
	if removed.ParentId == "" {
		next.RootIds = slices.DeleteFunc(next.RootIds, func(id core.ID) bool { return id == nodeId })
	} else {
		parent := next.Nodes[removed.ParentId]
		parent.ChildIds = slices.DeleteFunc(parent.ChildIds, func(id core.ID) bool { return id == nodeId })
	}

	// Reparent children to the removed node's former parent.
	for _, childId := range removed.ChildIds {
		child := next.Nodes[childId]
		child.ParentId = removed.ParentId
		if removed.ParentId == "" {
			next.RootIds = append(next.RootIds, childId)
		} else {
			parent := next.Nodes[removed.ParentId]
			parent.ChildIds = append(parent.ChildIds, childId)
		}
	}

	touch(next)
	return next, nil
}

// NodeUpdate describes the fields UpdateNode replaces.
// A nil Label leaves the label unchanged. A nil Attributes map leaves
// attributes unchanged; a non-nil map replaces the previous map wholesale.
type NodeUpdate struct {
	Label      *string
	Attributes map[string]string
}

// UpdateNode replaces a node's label and/or attributes and returns the new
// tree value. Structure is never altered. Fails with core.ErrNodeNotFound
// if the id is absent.
func UpdateNode(tree *core.Tree, nodeId core.ID, update NodeUpdate) (*core.Tree, error) {
	if _, ok := tree.Nodes[nodeId]; !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, nodeId)
	}
	var label string
	if update.Label != nil {
		label = core.NormalizeLabel(*update.Label)
		if label == "" {
			return nil, core.ErrEmptyLabel
		}
	}

	next := clone(tree)
	node := next.Nodes[nodeId]
	if update.Label != nil {
		node.Label = label
	}
	if update.Attributes != nil {
		if len(update.Attributes) == 0 {
			node.Attributes = nil
		} else {
			node.Attributes = maps.Clone(update.Attributes)
		}
	}

	touch(next)
	return next, nil
}

// MoveNode reparents a node and returns the new tree value. The node is
// removed from its old level and inserted into the new parent's child list
// (or the root list when newParentId is empty) at the 0-based position,
// clamped to [0, len]. The call is all-or-nothing: it fails with
// core.ErrNodeNotFound if the node or new parent is absent, and with
// core.ErrCycle if the new parent is the node itself or one of its
// descendants, leaving the input tree untouched.
func MoveNode(tree *core.Tree, nodeId, newParentId core.ID, position int) (*core.Tree, error) {
	if _, ok := tree.Nodes[nodeId]; !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, nodeId)
	}
	if newParentId != "" {
		if _, ok := tree.Nodes[newParentId]; !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrNodeNotFound, newParentId)
		}
		if newParentId == nodeId {
			return nil, fmt.Errorf("%w: %s cannot be its own parent", core.ErrCycle, nodeId)
		}
		// Walk the ancestor chain of the new parent; hitting the moved
		// node means the new parent sits inside its subtree.
		for current := newParentId; current != ""; {
			ancestor := tree.Nodes[current].ParentId
			if ancestor == nodeId {
				return nil, fmt.Errorf("%w: %s is a descendant of %s", core.ErrCycle, newParentId, nodeId)
			}
			current = ancestor
		}
	}

	next := clone(tree)
	moved := next.Nodes[nodeId]

	// Detach from the old level.
	if moved.ParentId == "" {
		next.RootIds = slices.DeleteFunc(next.RootIds, func(id core.ID) bool { return id == nodeId })
	} else {
		oldParent := next.Nodes[moved.ParentId]
		oldParent.ChildIds = slices.DeleteFunc(oldParent.ChildIds, func(id core.ID) bool { return id == nodeId })
	}

	moved.ParentId = newParentId
	if newParentId == "" {
		next.RootIds = insertAt(next.RootIds, nodeId, position)
	} else {
		parent := next.Nodes[newParentId]
		parent.ChildIds = insertAt(parent.ChildIds, nodeId, position)
	}

	touch(next)
	return next, nil
}

// ChildNodes returns the direct children of a node in stored order, or the
// root nodes when parentId is empty. Unknown ids are treated as having no
// children; the result is never nil-dereferenced and the call never fails.
func ChildNodes(tree *core.Tree, parentId core.ID) []*core.Node {
	var ids []core.ID
	if parentId == "" {
		ids = tree.RootIds
	} else if parent, ok := tree.Nodes[parentId]; ok {
		ids = parent.ChildIds
	}

	children := make([]*core.Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := tree.Nodes[id]; ok {
			children = append(children, node)
		}
	}
	return children
}

// insertAt inserts id into ids at the given position, clamped to [0, len].
func insertAt(ids []core.ID, id core.ID, position int) []core.ID {
	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	return slices.Insert(ids, position, id)
}

// clone deep-copies a tree so mutations never alias the input value.
// Trees are small (one node per tag), so a full copy keeps copy-on-write
// semantics simple and safe for concurrent readers.
func clone(tree *core.Tree) *core.Tree {
	next := &core.Tree{
		Nodes:     make(map[core.ID]*core.Node, len(tree.Nodes)),
		RootIds:   slices.Clone(tree.RootIds),
		UpdatedAt: tree.UpdatedAt,
	}
	for id, node := range tree.Nodes {
		copied := *node
		copied.ChildIds = slices.Clone(node.ChildIds)
		copied.Attributes = maps.Clone(node.Attributes)
		next.Nodes[id] = &copied
	}
	return next
}

// touch records a structural or content mutation.
func touch(tree *core.Tree) {
	tree.UpdatedAt = time.Now().UTC()
}
