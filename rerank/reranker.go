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

package rerank

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/search"
)

// DefaultMinScored is the minimum number of successfully scored
// candidates required before the reranked order is returned.
const DefaultMinScored = 1

// Scored is a candidate with its judged relevance. Rank is the
// candidate's position in the original vector order and breaks ties
// between equal relevance scores.
type Scored struct {
	Candidate search.Result
	Relevance float64
	Rank      int
}

// Reranker reorders vector-search candidates by judged relevance.
// Vector similarity finds plausible passages; the judge reads each one
// against the query and scores actual relevance, which is slower but
// considerably sharper at the top of the list.
type Reranker struct {
	judge     ai.Judge
	pool      *ants.Pool
	textField core.TextField
	minScored int
	logger    *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker) error

// WithConcurrency sets the number of concurrent judge calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(r *Reranker) error {
		if n < 1 {
			n = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithMinScored sets how many candidates must score successfully
// before the reranked order is trusted.
func WithMinScored(n int) Option {
	return func(r *Reranker) error {
		if n < 1 {
			n = 1
		}
		r.minScored = n
		return nil
	}
}

// WithTextField selects which side of each alignment the judge reads.
func WithTextField(f core.TextField) Option {
	return func(r *Reranker) error {
		r.textField = f
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReranker creates a Reranker backed by the given judge.
func NewReranker(judge ai.Judge, opts ...Option) (*Reranker, error) {
	if judge == nil {
		return nil, ErrJudgeRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Reranker{
		judge:     judge,
		pool:      pool,
		textField: core.FieldSrcText,
		minScored: DefaultMinScored,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	return r, nil
}

// Release frees the worker pool. The Reranker is unusable afterwards.
func (r *Reranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rerank scores the candidates against the query and returns up to n
// of them ordered by descending relevance. Candidates whose scoring
// fails are dropped; if fewer than the configured minimum survive,
// ErrTooFewScored is returned and the caller should keep the original
// vector order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []search.Result, n int) ([]Scored, error) {
	if len(candidates) == 0 || n <= 0 {
		return nil, nil
	}

	scored := make([]*Scored, len(candidates))
	var wg sync.WaitGroup

	for i := range candidates {
		i := i
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()

			candidate := candidates[i]
			text := candidate.Alignment.TextFor(r.textField)
			if text == "" {
				r.logger.Debug("skipping candidate with empty text", "vectorID", candidate.VectorID)
				return
			}

			relevance, err := r.judge.ScoreRelevance(ctx, query, text)
			if err != nil {
				r.logger.Warn("relevance scoring failed",
					"vectorID", candidate.VectorID, "err", err)
				return
			}
			scored[i] = &Scored{Candidate: candidate, Relevance: relevance, Rank: i}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Scored, 0, len(candidates))
	for _, s := range scored {
		if s != nil {
			results = append(results, *s)
		}
	}
	if len(results) < r.minScored {
		return nil, fmt.Errorf("%w: %d of %d", ErrTooFewScored, len(results), len(candidates))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Rank < results[j].Rank
	})

	if n > len(results) {
		n = len(results)
	}
	r.logger.Debug("rerank complete",
		"candidates", len(candidates),
		"scored", len(results),
		"returned", n)
	return results[:n], nil
}
