package core

import (
	"testing"
)

func testCorpus() *Corpus {
	chunks := []Chunk{
		{ChunkID: 0, Text: "AN EMERGENCY", Language: LanguageEnglish, Part: "001"},
		{ChunkID: 1, Text: "PASSENGER TRAIN", Language: LanguageEnglish, Part: "001"},
		{ChunkID: 0, Text: "UN'EMERGENZA", Language: LanguageItalian, Part: "001"},
	}
	alignments := []Alignment{
		{
			Part: "001", SrcText: "AN EMERGENCY", TgtText: "UN'EMERGENZA",
			SrcChunks:     []Chunk{chunks[0]},
			TgtChunks:     []Chunk{chunks[2]},
			AlignmentType: "1-1",
			Validation:    Verdict{IsValidAlignment: true, Confidence: 0.9, ValidationSuccess: true},
		},
		{
			Part: "001", SrcText: "PASSENGER TRAIN", TgtText: "TRENO PASSEGGERI",
			SrcChunks:     []Chunk{chunks[1]},
			TgtChunks:     []Chunk{{ChunkID: 1, Text: "TRENO PASSEGGERI", Language: LanguageItalian, Part: "001"}},
			AlignmentType: "1-1",
		},
	}
	return NewCorpus(chunks, alignments)
}

func TestCorpus_Chunk(t *testing.T) {
	c := testCorpus()

	chunk, ok := c.Chunk(LanguageEnglish, 1)
	if !ok {
		t.Fatal("expected chunk (en, 1)")
	}
	if chunk.Text != "PASSENGER TRAIN" {
		t.Errorf("Chunk(en, 1).Text = %q", chunk.Text)
	}

	// Same id on the other side must resolve independently.
	chunk, ok = c.Chunk(LanguageItalian, 0)
	if !ok || chunk.Text != "UN'EMERGENZA" {
		t.Errorf("Chunk(it, 0) = %v, %v", chunk, ok)
	}

	if _, ok := c.Chunk(LanguageEnglish, 99); ok {
		t.Error("expected miss for unknown chunk id")
	}
}

func TestCorpus_AlignmentsFor(t *testing.T) {
	c := testCorpus()

	got := c.AlignmentsFor(LanguageEnglish, 0)
	if len(got) != 1 || got[0].SrcText != "AN EMERGENCY" {
		t.Fatalf("AlignmentsFor(en, 0) = %v", got)
	}

	got = c.AlignmentsFor(LanguageItalian, 1)
	if len(got) != 1 || got[0].TgtText != "TRENO PASSEGGERI" {
		t.Fatalf("AlignmentsFor(it, 1) = %v", got)
	}

	if got := c.AlignmentsFor(LanguageEnglish, 42); got != nil {
		t.Errorf("AlignmentsFor(en, 42) = %v, want nil", got)
	}
}

func TestCorpus_ValidatedAlignments(t *testing.T) {
	c := testCorpus()

	validated := c.ValidatedAlignments()
	if len(validated) != 1 {
		t.Fatalf("ValidatedAlignments() returned %d records, want 1", len(validated))
	}
	if validated[0].SrcText != "AN EMERGENCY" {
		t.Errorf("unexpected validated record: %q", validated[0].SrcText)
	}
}
