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

package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/core"
)

// Builder defaults.
const (
	DefaultBatchSize   = 32
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// BuildStats summarizes a completed build.
type BuildStats struct {
	NumAlignments  int // records offered
	NumIndexed     int // records embedded and indexed
	NumSkipped     int // records with an empty text field
	NumUnvalidated int // records without a successful verdict
	EmbeddingDim   int
	Variant        Variant
}

// Builder embeds alignment records and writes a complete index
// directory. A directory is either fully written or untouched; a
// failed build never leaves a partial index behind.
type Builder struct {
	embedder    ai.Embedder
	batchSize   int
	variant     Variant
	textField   core.TextField
	normalize   bool
	m           int
	efSearch    int
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBatchSize sets how many texts are embedded per request.
func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithVariant selects the index structure. VariantAuto resolves at
// build time from the corpus size.
func WithVariant(v Variant) BuilderOption {
	return func(b *Builder) { b.variant = v }
}

// WithTextField selects which side of the alignment is embedded.
func WithTextField(f core.TextField) BuilderOption {
	return func(b *Builder) { b.textField = f }
}

// WithNormalization controls unit-length normalization of embeddings.
// Enabled by default; inner-product and graph variants require it.
func WithNormalization(enabled bool) BuilderOption {
	return func(b *Builder) { b.normalize = enabled }
}

// WithHNSWParams sets graph connectivity and search width for the
// hnsw variant. Ignored by the flat variants.
func WithHNSWParams(m, efSearch int) BuilderOption {
	return func(b *Builder) {
		b.m = m
		b.efSearch = efSearch
	}
}

// WithRetry configures embedding retry behavior.
func WithRetry(maxAttempts int, baseDelay time.Duration) BuilderOption {
	return func(b *Builder) {
		b.maxAttempts = maxAttempts
		b.retryDelay = baseDelay
	}
}

// WithLogger sets the build logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder for the given embedder.
func NewBuilder(embedder ai.Embedder, opts ...BuilderOption) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	b := &Builder{
		embedder:    embedder,
		batchSize:   DefaultBatchSize,
		variant:     VariantAuto,
		textField:   core.FieldSrcText,
		normalize:   true,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build embeds every validated alignment with a non-empty text field
// and writes the index, its metadata, and its configuration into dir.
// Alignments without a successful verdict never enter the index, so a
// search can only ever surface validated records.
func (b *Builder) Build(ctx context.Context, alignments []core.Alignment, dir string) (BuildStats, error) {
	stats := BuildStats{NumAlignments: len(alignments)}

	kept := make([]core.Alignment, 0, len(alignments))
	texts := make([]string, 0, len(alignments))
	for _, record := range alignments {
		if !record.Validated() {
			stats.NumUnvalidated++
			continue
		}
		text := record.TextFor(b.textField)
		if text == "" {
			stats.NumSkipped++
			continue
		}
		kept = append(kept, record)
		texts = append(texts, text)
	}
	if len(kept) == 0 {
		return stats, ErrNoRecords
	}

	variant, err := ResolveVariant(b.variant, len(kept))
	if err != nil {
		return stats, err
	}
	stats.Variant = variant
	if !b.normalize && (variant == VariantFlatIP || variant == VariantHNSW) {
		return stats, fmt.Errorf("%w: variant %q", ErrNormalizationRequired, variant)
	}

	b.logger.Info("building index",
		"records", len(kept),
		"skipped", stats.NumSkipped,
		"unvalidated", stats.NumUnvalidated,
		"variant", variant,
		"textField", b.textField,
		"model", b.embedder.ModelName())

	vectors, err := b.embedAll(ctx, texts)
	if err != nil {
		return stats, err
	}
	stats.EmbeddingDim = len(vectors[0])

	cfg := Config{
		ModelName:  b.embedder.ModelName(),
		Dim:        stats.EmbeddingDim,
		Normalized: b.normalize,
		Variant:    variant,
		TextField:  b.textField,
		NumVectors: len(kept),
	}
	if variant == VariantHNSW {
		cfg.M = b.m
		cfg.EfSearch = b.efSearch
		if cfg.M == 0 {
			cfg.M = DefaultHNSWM
		}
		if cfg.EfSearch == 0 {
			cfg.EfSearch = DefaultHNSWEfSearch
		}
	}

	idx, err := New(cfg)
	if err != nil {
		return stats, err
	}
	for i, vec := range vectors {
		if err := idx.Add(vec); err != nil {
			return stats, fmt.Errorf("index record %d: %w", i, err)
		}
	}
	stats.NumIndexed = idx.Len()

	if err := b.persist(idx, NewMetadataStore(kept), cfg, dir); err != nil {
		return stats, err
	}

	b.logger.Info("index built",
		"indexed", stats.NumIndexed,
		"dim", stats.EmbeddingDim,
		"dir", dir)
	return stats, nil
}

// embedAll embeds texts in batches, retrying transient failures. A
// batch that still fails after retries aborts the whole build.
func (b *Builder) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	dim := 0

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var embedded [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			embedded, embedErr = b.embedder.EmbedTexts(ctx, batch)
			return embedErr
		}, b.maxAttempts, b.retryDelay)
		if err != nil {
			return nil, fmt.Errorf("embed records %d-%d: %w", start, end-1, err)
		}
		if len(embedded) != len(batch) {
			return nil, fmt.Errorf("embed records %d-%d: %w", start, end-1, ai.ErrEmbeddingCountMismatch)
		}

		for i, vec := range embedded {
			if dim == 0 {
				dim = len(vec)
			}
			if len(vec) != dim {
				return nil, fmt.Errorf("embed record %d: %w", start+i, DimensionError{Expected: dim, Got: len(vec)})
			}
			if b.normalize {
				vec = Normalize(vec)
			}
			vectors = append(vectors, vec)
		}

		b.logger.Debug("embedded batch", "from", start, "to", end-1)
	}

	return vectors, nil
}

// persist writes all three artifacts into a staging directory next to
// dir, then swaps it into place. An existing index directory is only
// replaced once the new one is complete.
func (b *Builder) persist(idx Index, meta *MetadataStore, cfg Config, dir string) error {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create index parent directory: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".index-build-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := idx.Save(filepath.Join(staging, IndexFileName)); err != nil {
		return err
	}
	if err := meta.Save(filepath.Join(staging, MetadataFileName)); err != nil {
		return err
	}
	if err := SaveConfig(filepath.Join(staging, ConfigFileName), cfg); err != nil {
		return err
	}

	old := dir + ".old"
	replaced := false
	if _, err := os.Stat(dir); err == nil {
		os.RemoveAll(old)
		if err := os.Rename(dir, old); err != nil {
			return fmt.Errorf("stage out old index: %w", err)
		}
		replaced = true
	}

	if err := os.Rename(staging, dir); err != nil {
		if replaced {
			os.Rename(old, dir)
		}
		return fmt.Errorf("install index directory: %w", err)
	}
	if replaced {
		os.RemoveAll(old)
	}
	return nil
}
