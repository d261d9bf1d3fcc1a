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
	"testing"

	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	chunkRepo, alignmentRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		alignmentRepo.Close()
		backend.Close()
	})

	service, err := NewService(chunkRepo, alignmentRepo)
	require.NoError(t, err)
	return service
}

func testCorpus() *core.Corpus {
	chunks := []core.Chunk{
		{ChunkID: 10, Text: "AN EMERGENCY", Language: core.LanguageEnglish, Part: "P1"},
		{ChunkID: 10, Text: "UN'EMERGENZA", Language: core.LanguageItalian, Part: "P1"},
		{ChunkID: 12, Text: "PASSENGER TRAIN", Language: core.LanguageEnglish, Part: "P1"},
		{ChunkID: 12, Text: "TRENO PASSEGGERI", Language: core.LanguageItalian, Part: "P1"},
		{ChunkID: 15, Text: "SIGNAL FAILURE", Language: core.LanguageEnglish, Part: "P2"},
		{ChunkID: 15, Text: "GUASTO AL SEGNALE", Language: core.LanguageItalian, Part: "P2"},
	}

	alignments := []core.Alignment{
		{
			Part:          "P1",
			SrcText:       "AN EMERGENCY",
			TgtText:       "UN'EMERGENZA",
			SrcChunks:     []core.Chunk{chunks[0]},
			TgtChunks:     []core.Chunk{chunks[1]},
			AlignmentType: "1:1",
			Validation:    core.Verdict{IsValidAlignment: true, Confidence: 0.9, ValidationSuccess: true},
		},
		{
			Part:          "P1",
			SrcText:       "PASSENGER TRAIN",
			TgtText:       "TRENO PASSEGGERI",
			SrcChunks:     []core.Chunk{chunks[2]},
			TgtChunks:     []core.Chunk{chunks[3]},
			AlignmentType: "1:1",
		},
		{
			Part:          "P2",
			SrcText:       "SIGNAL FAILURE",
			TgtText:       "GUASTO AL SEGNALE",
			SrcChunks:     []core.Chunk{chunks[4]},
			TgtChunks:     []core.Chunk{chunks[5]},
			AlignmentType: "1:1",
			Validation:    core.Verdict{IsValidAlignment: true, Confidence: 0.8, ValidationSuccess: true},
		},
	}

	return core.NewCorpus(chunks, alignments)
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	chunkRepo, alignmentRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewService(nil, alignmentRepo)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewService(chunkRepo, nil)
	assert.ErrorIs(t, err, ErrAlignmentRepositoryRequired)
}

func TestIngestStoresCorpus(t *testing.T) {
	service := newTestService(t)

	stats, err := service.Ingest(context.Background(), testCorpus())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Chunks)
	assert.Equal(t, 3, stats.Alignments)
}

func TestChunkLookupExact(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.ChunkLookup(ctx, core.LanguageEnglish, 10)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Fallback)
	assert.Equal(t, "AN EMERGENCY", result.QueryText)
	assert.Equal(t, "UN'EMERGENZA", result.Alignment.TgtText)
}

func TestChunkLookupSkipsUnvalidated(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	// Chunk 12's own alignment is unvalidated, so the lookup falls
	// back to chunk 10.
	result, err := service.ChunkLookup(ctx, core.LanguageEnglish, 12)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Fallback)
	assert.Equal(t, "PASSENGER TRAIN", result.QueryText)
	assert.Equal(t, "AN EMERGENCY", result.Alignment.SrcText)
}

func TestChunkLookupMissingChunkStillFallsBack(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.ChunkLookup(ctx, core.LanguageEnglish, 14)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Fallback)
	assert.Empty(t, result.QueryText)
	assert.Equal(t, "AN EMERGENCY", result.Alignment.SrcText)
}

func TestChunkLookupNothingValidatedBelow(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.ChunkLookup(ctx, core.LanguageEnglish, 5)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Nil(t, result.Alignment)
	assert.Contains(t, result.Reason, "no validated alignment")
}

func TestChunkLookupItalianSide(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.ChunkLookup(ctx, core.LanguageItalian, 15)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Fallback)
	assert.Equal(t, "GUASTO AL SEGNALE", result.QueryText)
	assert.Equal(t, "SIGNAL FAILURE", result.Alignment.SrcText)
}

func TestChunkLookupRejectsUnknownLanguage(t *testing.T) {
	service := newTestService(t)

	_, err := service.ChunkLookup(context.Background(), core.Language("fr"), 10)
	assert.ErrorIs(t, err, core.ErrInvalidLanguage)
}

func TestLookupByExcerpt(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.Lookup(ctx, "an emergency")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Fallback)
	assert.Equal(t, core.LanguageEnglish, result.QueryLanguage)
	assert.Equal(t, "UN'EMERGENZA", result.Alignment.TgtText)
}

func TestLookupByExcerptItalian(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.Lookup(ctx, "guasto al segnale")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, core.LanguageItalian, result.QueryLanguage)
	assert.Equal(t, "SIGNAL FAILURE", result.Alignment.SrcText)
}

func TestLookupByExcerptFallsBack(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	// "passenger train" lands on chunk 12, whose alignment is
	// unvalidated.
	result, err := service.Lookup(ctx, "passenger train")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Fallback)
	assert.Equal(t, "AN EMERGENCY", result.Alignment.SrcText)
}

func TestLookupByExcerptNoMatch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	_, err := service.Ingest(ctx, testCorpus())
	require.NoError(t, err)

	result, err := service.Lookup(ctx, "locomotive depot")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Contains(t, result.Reason, "no chunk contains")
}

func TestLookupRejectsEmptyExcerpt(t *testing.T) {
	service := newTestService(t)

	_, err := service.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyExcerpt)
}
