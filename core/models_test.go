package core

import "testing"

func TestDigestID(t *testing.T) {
	id1 := DigestID("hello world")
	id2 := DigestID("hello world")
	id3 := DigestID("hello world!")

	if id1 != id2 {
		t.Errorf("DigestID not deterministic: %s != %s", id1, id2)
	}
	if id1 == id3 {
		t.Errorf("DigestID collision for different inputs: %s", id1)
	}
	if len(id1) != 16 {
		t.Errorf("Expected 16 hex chars, got %d (%s)", len(id1), id1)
	}
}

func TestNewID(t *testing.T) {
	id1 := NewID()
	id2 := NewID()

	if id1 == "" {
		t.Fatal("Expected non-empty ID")
	}
	if id1 == id2 {
		t.Errorf("Expected distinct IDs, got %s twice", id1)
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare word gets topic marker", "AI", "#AI"},
		{"topic label kept", "#AI", "#AI"},
		{"entity label kept", "@Alice", "@Alice"},
		{"whitespace trimmed", "  MachineLearning  ", "#MachineLearning"},
		{"empty stays empty", "", ""},
		{"whitespace only stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLabel(tt.input); got != tt.want {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNoteHasVector(t *testing.T) {
	note := &Note{Title: "x", Status: NoteStatusActive}
	if note.HasVector() {
		t.Error("Expected HasVector() == false for note without embedding")
	}

	note.Vector = []float32{0.1, 0.2}
	if !note.HasVector() {
		t.Error("Expected HasVector() == true for note with embedding")
	}
}
