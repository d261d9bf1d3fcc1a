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

package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/storage"
)

// Result is the answer to a chunk lookup. When Found is true,
// Alignment carries a validated record and Fallback reports whether it
// belongs to a lower chunk than the one asked for. Reason is a short
// human-readable account either way.
type Result struct {
	Found         bool
	Reason        string
	QueryLanguage core.Language
	QueryChunkID  int
	QueryText     string
	Alignment     *core.Alignment
	Fallback      bool
}

// IngestStats counts records stored by Ingest.
type IngestStats struct {
	Chunks     int
	Alignments int
}

// Service answers chunk-to-alignment lookups over the persistent
// store. Only validated alignments are ever surfaced; when the asked
// chunk has none, the service falls back to the nearest lower chunk
// that does, since neighboring chunks carry adjacent text.
type Service struct {
	chunks     storage.ChunkRepository
	alignments storage.AlignmentRepository
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a lookup Service over the given repositories.
func NewService(chunks storage.ChunkRepository, alignments storage.AlignmentRepository, opts ...Option) (*Service, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if alignments == nil {
		return nil, ErrAlignmentRepositoryRequired
	}

	s := &Service{
		chunks:     chunks,
		alignments: alignments,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ingest stores a corpus into the repositories.
func (s *Service) Ingest(ctx context.Context, corpus *core.Corpus) (IngestStats, error) {
	var stats IngestStats

	chunks := corpus.Chunks()
	for i := range chunks {
		if err := s.chunks.AddChunks(ctx, &chunks[i]); err != nil {
			return stats, fmt.Errorf("store chunk %d: %w", chunks[i].ChunkID, err)
		}
		stats.Chunks++
	}

	alignments := corpus.Alignments()
	for i := range alignments {
		if err := s.alignments.AddAlignments(ctx, &alignments[i]); err != nil {
			return stats, fmt.Errorf("store alignment %d: %w", i, err)
		}
		stats.Alignments++
	}

	s.logger.Info("corpus ingested",
		"chunks", stats.Chunks,
		"alignments", stats.Alignments)
	return stats, nil
}

// Lookup finds the validated alignment to surface for a text excerpt.
// Both language sides are scanned, English first; the excerpt is
// matched as a case-insensitive substring of chunk text. A miss is a
// Result with Found false, not an error.
func (s *Service) Lookup(ctx context.Context, excerpt string) (Result, error) {
	excerpt = strings.TrimSpace(excerpt)
	if excerpt == "" {
		return Result{}, ErrEmptyExcerpt
	}

	for _, lang := range []core.Language{core.LanguageEnglish, core.LanguageItalian} {
		chunk, err := s.chunks.FindChunkByText(ctx, lang, excerpt)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return Result{}, err
		}
		return s.ChunkLookup(ctx, chunk.Language, chunk.ChunkID)
	}

	return Result{
		Reason: fmt.Sprintf("no chunk contains %q", excerpt),
	}, nil
}

// ChunkLookup finds the validated alignment to surface for a chunk.
func (s *Service) ChunkLookup(ctx context.Context, lang core.Language, chunkID int) (Result, error) {
	result := Result{
		QueryLanguage: lang,
		QueryChunkID:  chunkID,
	}
	if err := core.ValidateLanguage(lang); err != nil {
		return result, err
	}

	// The chunk text is informational; a missing chunk record does not
	// block the alignment lookup.
	chunk, err := s.chunks.GetChunk(ctx, lang, chunkID)
	switch {
	case err == nil:
		result.QueryText = chunk.Text
	case errors.Is(err, storage.ErrNotFound):
	default:
		return result, err
	}

	alignment, exact, err := s.alignments.ValidatedForChunk(ctx, lang, chunkID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			result.Reason = fmt.Sprintf("no validated alignment at or below chunk %d", chunkID)
			return result, nil
		}
		return result, err
	}

	result.Found = true
	result.Alignment = alignment
	result.Fallback = !exact
	if exact {
		result.Reason = "validated alignment for the requested chunk"
	} else {
		result.Reason = fmt.Sprintf("fallback from chunk %d to the nearest validated alignment below it", chunkID)
	}

	s.logger.Debug("chunk lookup",
		"lang", lang,
		"chunkID", chunkID,
		"found", result.Found,
		"fallback", result.Fallback)
	return result, nil
}
