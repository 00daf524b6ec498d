package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateNode(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{
			name:    "valid topic node",
			node:    &Node{Id: "n1", Label: "#AI"},
			wantErr: nil,
		},
		{
			name:    "valid entity node",
			node:    &Node{Id: "n2", Label: "@Alice"},
			wantErr: nil,
		},
		{
			name:    "valid node with parent and children",
			node:    &Node{Id: "n3", Label: "#ML", ParentId: "n1", ChildIds: []ID{"n4"}},
			wantErr: nil,
		},
		{
			name:    "nil node",
			node:    nil,
			wantErr: ErrInvalidTree,
		},
		{
			name:    "empty id",
			node:    &Node{Id: "", Label: "#AI"},
			wantErr: ErrInvalidTree,
		},
		{
			name:    "empty label",
			node:    &Node{Id: "n1", Label: ""},
			wantErr: ErrEmptyLabel,
		},
		{
			name:    "label without marker",
			node:    &Node{Id: "n1", Label: "AI"},
			wantErr: ErrEmptyLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNode(tt.node)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNode() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateNode() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTree(t *testing.T) {
	valid := func() *Tree {
		return &Tree{
			Nodes: map[ID]*Node{
				"a": {Id: "a", Label: "#AI", ChildIds: []ID{"b"}},
				"b": {Id: "b", Label: "#ML", ParentId: "a", ChildIds: []ID{"c"}},
				"c": {Id: "c", Label: "#NLP", ParentId: "b"},
				"d": {Id: "d", Label: "#Cooking"},
			},
			RootIds: []ID{"a", "d"},
		}
	}

	t.Run("valid tree", func(t *testing.T) {
		if err := ValidateTree(valid()); err != nil {
			t.Errorf("ValidateTree() error = %v, want nil", err)
		}
	})

	t.Run("empty tree", func(t *testing.T) {
		tree := &Tree{Nodes: map[ID]*Node{}, RootIds: []ID{}}
		if err := ValidateTree(tree); err != nil {
			t.Errorf("ValidateTree() error = %v, want nil", err)
		}
	})

	t.Run("nil tree", func(t *testing.T) {
		if err := ValidateTree(nil); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("child does not point back at parent", func(t *testing.T) {
		tree := valid()
		tree.Nodes["c"].ParentId = "a"
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("child listed twice", func(t *testing.T) {
		tree := valid()
		tree.Nodes["a"].ChildIds = []ID{"b", "b"}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("missing child node", func(t *testing.T) {
		tree := valid()
		tree.Nodes["c"].ChildIds = []ID{"nope"}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("parentless node missing from roots", func(t *testing.T) {
		tree := valid()
		tree.RootIds = []ID{"a"}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("root with a parent", func(t *testing.T) {
		tree := valid()
		tree.RootIds = []ID{"a", "d", "b"}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("parent cycle", func(t *testing.T) {
		tree := &Tree{
			Nodes: map[ID]*Node{
				"a": {Id: "a", Label: "#A", ParentId: "b", ChildIds: []ID{"b"}},
				"b": {Id: "b", Label: "#B", ParentId: "a", ChildIds: []ID{"a"}},
			},
			RootIds: []ID{},
		}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})

	t.Run("node keyed under wrong id", func(t *testing.T) {
		tree := valid()
		tree.Nodes["x"] = &Node{Id: "y", Label: "#X"}
		if err := ValidateTree(tree); !errors.Is(err, ErrInvalidTree) {
			t.Errorf("ValidateTree() error = %v, want %v", err, ErrInvalidTree)
		}
	})
}

func TestValidateNote(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		note    *Note
		wantErr error
	}{
		{
			name: "valid note",
			note: &Note{
				Title:     "Planning",
				Content:   "Quarterly planning notes",
				Status:    NoteStatusActive,
				CreatedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid note without title",
			note: &Note{
				Content:   "Untitled scratch note",
				Status:    NoteStatusActive,
				CreatedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid note without content",
			note: &Note{
				Title:     "Reminder",
				Status:    NoteStatusArchived,
				CreatedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid note with zero created time",
			note: &Note{
				Title:  "Fresh",
				Status: NoteStatusActive,
			},
			wantErr: nil,
		},
		{
			name:    "nil note",
			note:    nil,
			wantErr: ErrInvalidNote,
		},
		{
			name: "empty title and content",
			note: &Note{
				Status:    NoteStatusActive,
				CreatedAt: validTime,
			},
			wantErr: ErrEmptyNote,
		},
		{
			name: "invalid status",
			note: &Note{
				Title:     "Broken",
				Status:    NoteStatus(999),
				CreatedAt: validTime,
			},
			wantErr: ErrInvalidStatus,
		},
		{
			name: "future created time",
			note: &Note{
				Title:     "From the future",
				Status:    NoteStatusActive,
				CreatedAt: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNote(tt.note)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNote() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateNote() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNote() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
