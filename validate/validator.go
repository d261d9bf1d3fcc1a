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

package validate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/core"
)

// Summary reports the outcome of a validation run. MeanConfidence is
// averaged over successfully judged records only.
type Summary struct {
	Processed      int
	Valid          int
	Invalid        int
	Errored        int
	MeanConfidence float64
}

// Validator runs the alignment judge over a corpus of alignments.
// A judge failure on one record never fails the run: the record gets
// a failed verdict carrying the error text and processing continues,
// so a long validation pass survives transient model outages.
type Validator struct {
	judge    ai.Judge
	pool     *ants.Pool
	progress *ProgressTracker
	logger   *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator) error

// WithConcurrency sets the number of concurrent judge calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(v *Validator) error {
		if n < 1 {
			n = 1
		}
		if v.pool != nil {
			v.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		v.pool = pool
		return nil
	}
}

// WithProgress attaches a progress tracker updated per record.
func WithProgress(tracker *ProgressTracker) Option {
	return func(v *Validator) error {
		v.progress = tracker
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			logger = slog.Default()
		}
		v.logger = logger
		return nil
	}
}

// NewValidator creates a Validator backed by the given judge.
func NewValidator(judge ai.Judge, opts ...Option) (*Validator, error) {
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

	v := &Validator{
		judge:  judge,
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(v); optErr != nil {
			v.Release()
			return nil, optErr
		}
	}
	return v, nil
}

// Release frees the worker pool. The Validator is unusable afterwards.
func (v *Validator) Release() {
	if v.pool != nil {
		v.pool.Release()
	}
}

// Validate judges every alignment and returns a copy of the records
// with verdicts attached, along with a run summary. The input slice
// is not modified. Record order is preserved.
func (v *Validator) Validate(ctx context.Context, alignments []core.Alignment) ([]core.Alignment, Summary, error) {
	out := make([]core.Alignment, len(alignments))
	copy(out, alignments)
	if len(out) == 0 {
		return out, Summary{}, nil
	}

	v.logger.Info("validating alignments", "records", len(out))
	if v.progress != nil {
		v.progress.Start()
	}

	var wg sync.WaitGroup
	for i := range out {
		i := i
		wg.Add(1)
		err := v.pool.Submit(func() {
			defer wg.Done()
			out[i].Validation = v.judgeOne(ctx, &out[i])
			if v.progress != nil {
				v.progress.Increment(1)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, Summary{}, fmt.Errorf("submit validation task: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}
	if v.progress != nil {
		v.progress.Finish()
	}

	summary := summarize(out)
	v.logger.Info("validation complete",
		"processed", summary.Processed,
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"errored", summary.Errored)
	return out, summary, nil
}

// judgeOne produces the verdict for a single record. Judge errors are
// captured in the verdict rather than propagated.
func (v *Validator) judgeOne(ctx context.Context, record *core.Alignment) core.Verdict {
	judgment, err := v.judge.JudgeAlignment(ctx, record.SrcText, record.TgtText)
	if err != nil {
		v.logger.Warn("alignment judgment failed", "part", record.Part, "err", err)
		return core.Verdict{
			ValidationSuccess: false,
			Error:             err.Error(),
		}
	}
	return core.Verdict{
		IsValidAlignment:  judgment.IsValid,
		Confidence:        judgment.Confidence,
		Reason:            judgment.Reason,
		ValidationSuccess: true,
	}
}

func summarize(records []core.Alignment) Summary {
	summary := Summary{Processed: len(records)}

	var confidenceSum float64
	for i := range records {
		verdict := records[i].Validation
		switch {
		case !verdict.ValidationSuccess:
			summary.Errored++
		case verdict.IsValidAlignment:
			summary.Valid++
			confidenceSum += verdict.Confidence
		default:
			summary.Invalid++
			confidenceSum += verdict.Confidence
		}
	}

	judged := summary.Valid + summary.Invalid
	if judged > 0 {
		summary.MeanConfidence = confidenceSum / float64(judged)
	}
	return summary
}
