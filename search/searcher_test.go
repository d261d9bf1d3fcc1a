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

package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/bitext/ai/mock"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture() []core.Alignment {
	verdict := core.Verdict{IsValidAlignment: true, Confidence: 0.9, ValidationSuccess: true}
	return []core.Alignment{
		{Part: "P1", SrcText: "AN EMERGENCY STOP", TgtText: "UN ARRESTO DI EMERGENZA", AlignmentType: "1:1", Validation: verdict},
		{Part: "P1", SrcText: "PASSENGER TRAIN DEPARTURE", TgtText: "PARTENZA TRENO PASSEGGERI", AlignmentType: "1:1", Validation: verdict},
		{Part: "P2", SrcText: "EMERGENCY BRAKE SIGNAL", TgtText: "SEGNALE FRENO DI EMERGENZA", AlignmentType: "1:1", Validation: verdict},
		{Part: "P2", SrcText: "TRACK MAINTENANCE SCHEDULE", TgtText: "PROGRAMMA MANUTENZIONE BINARI", AlignmentType: "1:1", Validation: verdict},
	}
}

func keywordEmbedder() *mock.Embedder {
	return mock.NewKeywordEmbedder(
		"emergency", "stop", "passenger", "train", "departure",
		"brake", "signal", "track", "maintenance", "schedule")
}

// buildFixtureIndex builds an index in a temp dir and returns the dir.
func buildFixtureIndex(t *testing.T, embedder *mock.Embedder) string {
	t.Helper()

	builder, err := index.NewBuilder(embedder, index.WithVariant(index.VariantFlatIP))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "idx")
	_, err = builder.Build(context.Background(), searchFixture(), dir)
	require.NoError(t, err)
	return dir
}

func TestOpenRejectsModelMismatch(t *testing.T) {
	dir := buildFixtureIndex(t, keywordEmbedder())

	other := mock.NewEmbedder()
	other.Model = "some-other-model"
	_, err := Open(dir, other)
	assert.ErrorIs(t, err, ErrModelMismatch)
}

func TestSearcherRequiresEmbedder(t *testing.T) {
	dir := buildFixtureIndex(t, keywordEmbedder())
	_, err := Open(dir, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearchRanksByRelevance(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)
	require.Equal(t, 4, searcher.Len())

	results, err := searcher.Search(context.Background(), "emergency stop", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "AN EMERGENCY STOP", results[0].Alignment.SrcText)
	assert.Greater(t, results[0].Score, results[1].Score)

	results, err = searcher.Search(context.Background(), "passenger train", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "PASSENGER TRAIN DEPARTURE", results[0].Alignment.SrcText)
}

func TestSearchNeverSurfacesUnvalidatedAlignments(t *testing.T) {
	records := append(searchFixture(), core.Alignment{
		Part: "P3", SrcText: "EMERGENCY EVACUATION ROUTE", TgtText: "VIA DI EVACUAZIONE DI EMERGENZA",
		AlignmentType: "1:1",
		Validation:    core.Verdict{ValidationSuccess: false, Error: "judge timeout"},
	})

	embedder := keywordEmbedder()
	builder, err := index.NewBuilder(embedder, index.WithVariant(index.VariantFlatIP))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "idx")
	_, err = builder.Build(context.Background(), records, dir)
	require.NoError(t, err)

	searcher, err := Open(dir, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "emergency", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, result := range results {
		assert.True(t, result.Alignment.Validated(),
			"surfaced alignment %q must carry a successful verdict", result.Alignment.SrcText)
	}
}

func TestSearchPartFilter(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "emergency", 2, WithPartFilter("P2"))
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, result := range results {
		assert.Equal(t, "P2", result.Alignment.Part)
	}
	assert.Equal(t, "EMERGENCY BRAKE SIGNAL", results[0].Alignment.SrcText)
}

func TestSearchPartFilterNoMatches(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "emergency", 2, WithPartFilter("P9"))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyQuery(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchZeroK(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "emergency", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchKBeyondCorpus(t *testing.T) {
	embedder := keywordEmbedder()
	searcher, err := Open(buildFixtureIndex(t, embedder), embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "train", 100)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestNewSearcherCardinalityMismatch(t *testing.T) {
	embedder := keywordEmbedder()
	dir := buildFixtureIndex(t, embedder)

	idx, cfg, err := index.Load(dir)
	require.NoError(t, err)

	meta := index.NewMetadataStore(searchFixture()[:2])
	_, err = NewSearcher(idx, meta, cfg, embedder)
	assert.ErrorIs(t, err, index.ErrCardinalityMismatch)
}
