package core

import (
	"errors"
	"testing"
)

func validChunk() Chunk {
	return Chunk{ChunkID: 0, Text: "AN EMERGENCY", Language: LanguageEnglish, Part: "001", Page: "0001"}
}

func validAlignment() Alignment {
	return Alignment{
		Part:          "001",
		SrcText:       "AN EMERGENCY",
		TgtText:       "UN'EMERGENZA",
		SrcChunks:     []Chunk{validChunk()},
		TgtChunks:     []Chunk{{ChunkID: 0, Text: "UN'EMERGENZA", Language: LanguageItalian, Part: "001"}},
		AlignmentType: "1-1",
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Chunk)
		wantErr error
	}{
		{name: "valid chunk", mutate: func(c *Chunk) {}, wantErr: nil},
		{name: "empty text", mutate: func(c *Chunk) { c.Text = "" }, wantErr: ErrEmptyText},
		{name: "unknown language", mutate: func(c *Chunk) { c.Language = "de" }, wantErr: ErrInvalidLanguage},
		{name: "negative id", mutate: func(c *Chunk) { c.ChunkID = -1 }, wantErr: ErrNegativeChunkID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := validChunk()
			tt.mutate(&chunk)

			err := ValidateChunk(&chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("ValidateChunk() error does not wrap ErrInvalidChunk: %v", err)
			}
		})
	}

	t.Run("nil chunk", func(t *testing.T) {
		if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
			t.Errorf("ValidateChunk(nil) = %v", err)
		}
	})
}

func TestValidateAlignment(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Alignment)
		wantErr error
	}{
		{name: "valid alignment", mutate: func(a *Alignment) {}, wantErr: nil},
		{name: "empty src text", mutate: func(a *Alignment) { a.SrcText = "" }, wantErr: ErrEmptyText},
		{name: "empty tgt text", mutate: func(a *Alignment) { a.TgtText = "" }, wantErr: ErrEmptyText},
		{name: "no src chunks", mutate: func(a *Alignment) { a.SrcChunks = nil }, wantErr: ErrInvalidAlignment},
		{name: "bad nested chunk", mutate: func(a *Alignment) { a.TgtChunks[0].Text = "" }, wantErr: ErrInvalidChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alignment := validAlignment()
			tt.mutate(&alignment)

			err := ValidateAlignment(&alignment)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAlignment() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAlignment() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVerdict(t *testing.T) {
	good := Verdict{IsValidAlignment: true, Confidence: 0.95, ValidationSuccess: true}
	if err := ValidateVerdict(&good); err != nil {
		t.Errorf("ValidateVerdict() = %v, want nil", err)
	}

	bad := Verdict{Confidence: 1.5}
	if err := ValidateVerdict(&bad); !errors.Is(err, ErrConfidenceRange) {
		t.Errorf("ValidateVerdict() = %v, want ErrConfidenceRange", err)
	}

	if err := ValidateVerdict(nil); !errors.Is(err, ErrInvalidVerdict) {
		t.Errorf("ValidateVerdict(nil) = %v", err)
	}
}
