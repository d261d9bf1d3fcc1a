package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored alignment records.
// It is generated deterministically from record content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Language identifies which side of the parallel corpus a chunk belongs to.
type Language string

const (
	// LanguageEnglish is the source side of the corpus.
	LanguageEnglish Language = "en"
	// LanguageItalian is the target side of the corpus.
	LanguageItalian Language = "it"
)

// Chunk is the minimal unit of source text. Chunks are immutable once
// produced: a chunk id is unique within its language, and the part and
// page identifiers are fixed-width zero-padded strings that must be
// compared as strings to preserve sort order.
type Chunk struct {
	ChunkID  int      `json:"chunk_id"`
	Text     string   `json:"text"`
	Language Language `json:"language"`
	Part     string   `json:"part,omitempty"`
	Page     string   `json:"page,omitempty"`
}

// Verdict is the result of an external judgment of whether an alignment
// is usable for retrieval. ValidationSuccess reports whether the judge
// call itself completed; IsValidAlignment is the judge's answer.
type Verdict struct {
	IsValidAlignment  bool    `json:"is_valid_alignment"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"reason,omitempty"`
	ValidationSuccess bool    `json:"validation_success"`
	Error             string  `json:"error,omitempty"`
}

// Alignment is a correspondence between one or more source-language
// chunks and one or more target-language chunks.
type Alignment struct {
	Part          string  `json:"part"`
	SrcText       string  `json:"src_text"`
	TgtText       string  `json:"tgt_text"`
	SrcChunks     []Chunk `json:"src_chunks"`
	TgtChunks     []Chunk `json:"tgt_chunks"`
	AlignmentType string  `json:"alignment_type"`
	Validation    Verdict `json:"validation"`
}

// ID returns the deterministic content-derived identifier for the alignment.
func (a *Alignment) ID() ID {
	return IDFromContent(a.Part + "\x00" + a.SrcText + "\x00" + a.TgtText)
}

// Validated reports whether the alignment carries a successful verdict.
// Only validated alignments may be surfaced to users.
func (a *Alignment) Validated() bool {
	return a.Validation.ValidationSuccess
}

// ChunksFor returns the chunk list for the given language side.
func (a *Alignment) ChunksFor(lang Language) []Chunk {
	if lang == LanguageEnglish {
		return a.SrcChunks
	}
	return a.TgtChunks
}

// TextField names a field of Alignment that can be embedded.
type TextField string

const (
	// FieldSrcText selects the concatenated source text.
	FieldSrcText TextField = "src_text"
	// FieldTgtText selects the concatenated target text.
	FieldTgtText TextField = "tgt_text"
)

// TextFor returns the named text field of the alignment, or "" for an
// unknown field name.
func (a *Alignment) TextFor(field TextField) string {
	switch field {
	case FieldSrcText:
		return a.SrcText
	case FieldTgtText:
		return a.TgtText
	}
	return ""
}
