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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/index"
)

// partFilterOverFetch is how many extra candidates are pulled from the
// index when a part filter is active, since filtering happens after
// the vector search.
const partFilterOverFetch = 4

// Result is a scored alignment returned by a search.
type Result struct {
	VectorID  uint64
	Score     float32
	Alignment core.Alignment
}

// Searcher answers similarity queries against a built index. The
// embedder must be the same model the index was built with; mixing
// embedding spaces silently produces garbage rankings, so a mismatch
// is refused up front.
type Searcher struct {
	idx      index.Index
	meta     *index.MetadataStore
	cfg      index.Config
	embedder ai.Embedder
	logger   *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithLogger sets the search logger.
func WithLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a Searcher over an already loaded index.
func NewSearcher(idx index.Index, meta *index.MetadataStore, cfg index.Config, embedder ai.Embedder, opts ...SearcherOption) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if embedder.ModelName() != cfg.ModelName {
		return nil, fmt.Errorf("%w: index built with %q, embedder is %q",
			ErrModelMismatch, cfg.ModelName, embedder.ModelName())
	}
	if idx.Len() != meta.Len() {
		return nil, fmt.Errorf("%w: index holds %d vectors, metadata holds %d records",
			index.ErrCardinalityMismatch, idx.Len(), meta.Len())
	}

	s := &Searcher{
		idx:      idx,
		meta:     meta,
		cfg:      cfg,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open loads the index directory at dir and wraps it in a Searcher.
func Open(dir string, embedder ai.Embedder, opts ...SearcherOption) (*Searcher, error) {
	idx, cfg, err := index.Load(dir)
	if err != nil {
		return nil, err
	}
	meta, err := index.LoadMetadata(filepath.Join(dir, index.MetadataFileName))
	if err != nil {
		return nil, err
	}
	return NewSearcher(idx, meta, cfg, embedder, opts...)
}

// Config returns the configuration of the underlying index.
func (s *Searcher) Config() index.Config {
	return s.cfg
}

// Len returns the number of searchable records.
func (s *Searcher) Len() int {
	return s.idx.Len()
}

// searchOptions collects per-query settings.
type searchOptions struct {
	part string
}

// SearchOption configures a single query.
type SearchOption func(*searchOptions)

// WithPartFilter restricts results to alignments from one document
// part. Filtering happens after the vector search, so the index is
// over-fetched to keep k results available.
func WithPartFilter(part string) SearchOption {
	return func(o *searchOptions) { o.part = part }
}

// Search embeds the query and returns up to k nearest alignments
// ordered by descending score.
func (s *Searcher) Search(ctx context.Context, query string, k int, opts ...SearchOption) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return nil, nil
	}

	var options searchOptions
	for _, opt := range opts {
		opt(&options)
	}

	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if s.cfg.Normalized {
		vec = index.Normalize(vec)
	}

	fetch := k
	if options.part != "" {
		fetch = k * partFilterOverFetch
		if fetch > s.idx.Len() {
			fetch = s.idx.Len()
		}
	}

	hits, err := s.idx.Search(vec, fetch)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, k)
	for _, hit := range hits {
		record, ok := s.meta.Get(hit.ID)
		if !ok {
			return nil, fmt.Errorf("%w: vector %d has no metadata record",
				index.ErrCardinalityMismatch, hit.ID)
		}
		if options.part != "" && record.Part != options.part {
			continue
		}
		results = append(results, Result{VectorID: hit.ID, Score: hit.Score, Alignment: record})
		if len(results) == k {
			break
		}
	}

	s.logger.Debug("search complete",
		"query", query,
		"k", k,
		"part", options.part,
		"results", len(results))
	return results, nil
}
