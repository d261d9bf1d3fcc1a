package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "unicode content", content: "Melancolia della Resistenza — parte 001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestAlignment_ID(t *testing.T) {
	a := Alignment{Part: "001", SrcText: "Introduction", TgtText: "Introduzione"}
	b := Alignment{Part: "001", SrcText: "Introduction", TgtText: "Introduzione"}
	if a.ID() != b.ID() {
		t.Errorf("identical alignments produced different IDs")
	}

	c := Alignment{Part: "002", SrcText: "Introduction", TgtText: "Introduzione"}
	if a.ID() == c.ID() {
		t.Errorf("alignments in different parts produced same ID")
	}
}

func TestAlignment_TextFor(t *testing.T) {
	a := Alignment{SrcText: "source", TgtText: "target"}

	if got := a.TextFor(FieldSrcText); got != "source" {
		t.Errorf("TextFor(src_text) = %q, want %q", got, "source")
	}
	if got := a.TextFor(FieldTgtText); got != "target" {
		t.Errorf("TextFor(tgt_text) = %q, want %q", got, "target")
	}
	if got := a.TextFor(TextField("nope")); got != "" {
		t.Errorf("TextFor(unknown) = %q, want empty", got)
	}
}

func TestAlignment_ChunksFor(t *testing.T) {
	a := Alignment{
		SrcChunks: []Chunk{{ChunkID: 1, Text: "a", Language: LanguageEnglish}},
		TgtChunks: []Chunk{{ChunkID: 2, Text: "b", Language: LanguageItalian}},
	}

	if got := a.ChunksFor(LanguageEnglish); len(got) != 1 || got[0].ChunkID != 1 {
		t.Errorf("ChunksFor(en) = %v", got)
	}
	if got := a.ChunksFor(LanguageItalian); len(got) != 1 || got[0].ChunkID != 2 {
		t.Errorf("ChunksFor(it) = %v", got)
	}
}
