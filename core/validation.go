// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Language must be a known tag
//   - ChunkID must not be negative
//
// NOT validated:
//   - Part/Page (optional; some corpora omit them)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if err := ValidateLanguage(chunk.Language); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.ChunkID < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkID)
	}

	return nil
}

// ValidateAlignment validates an Alignment according to domain rules.
//
// Validation rules:
//   - SrcText and TgtText must not be empty
//   - Both chunk lists must be non-empty and individually valid
//
// NOT validated (populated by the validation judge):
//   - Validation (zero verdict is valid before judging)
func ValidateAlignment(alignment *Alignment) error {
	if alignment == nil {
		return fmt.Errorf("%w: alignment is nil", ErrInvalidAlignment)
	}

	if alignment.SrcText == "" || alignment.TgtText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAlignment, ErrEmptyText)
	}

	if len(alignment.SrcChunks) == 0 || len(alignment.TgtChunks) == 0 {
		return fmt.Errorf("%w: alignment has no chunks", ErrInvalidAlignment)
	}

	for i := range alignment.SrcChunks {
		if err := ValidateChunk(&alignment.SrcChunks[i]); err != nil {
			return fmt.Errorf("%w: src chunk %d: %w", ErrInvalidAlignment, i, err)
		}
	}
	for i := range alignment.TgtChunks {
		if err := ValidateChunk(&alignment.TgtChunks[i]); err != nil {
			return fmt.Errorf("%w: tgt chunk %d: %w", ErrInvalidAlignment, i, err)
		}
	}

	return nil
}

// ValidateVerdict validates a Verdict according to domain rules.
func ValidateVerdict(verdict *Verdict) error {
	if verdict == nil {
		return fmt.Errorf("%w: verdict is nil", ErrInvalidVerdict)
	}

	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidVerdict, ErrConfidenceRange, verdict.Confidence)
	}

	return nil
}

// ValidateLanguage validates that a Language has a known value.
func ValidateLanguage(lang Language) error {
	if lang != LanguageEnglish && lang != LanguageItalian {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return nil
}
