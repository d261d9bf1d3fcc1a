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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/ai/mock"
	"github.com/poiesic/bitext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFixture() []core.Alignment {
	return []core.Alignment{
		{Part: "P1", SrcText: "Introduction", TgtText: "Introduzione", AlignmentType: "1:1"},
		{Part: "P1", SrcText: "AN EMERGENCY", TgtText: "UN'EMERGENZA", AlignmentType: "1:1"},
		{Part: "P2", SrcText: "SIGNAL FAILURE", TgtText: "COMPLETELY UNRELATED", AlignmentType: "1:1"},
	}
}

func TestNewValidatorRequiresJudge(t *testing.T) {
	_, err := NewValidator(nil)
	assert.ErrorIs(t, err, ErrJudgeRequired)
}

func TestValidateAttachesVerdicts(t *testing.T) {
	judge := mock.NewJudge()
	judge.JudgeAlignmentFunc = func(ctx context.Context, srcText, tgtText string) (ai.AlignmentJudgment, error) {
		if srcText == "Introduction" {
			return ai.AlignmentJudgment{IsValid: true, Confidence: 0.9, Reason: "cognate translation"}, nil
		}
		if srcText == "AN EMERGENCY" {
			return ai.AlignmentJudgment{IsValid: true, Confidence: 0.7, Reason: "direct translation"}, nil
		}
		return ai.AlignmentJudgment{IsValid: false, Confidence: 0.8, Reason: "unrelated texts"}, nil
	}

	validator, err := NewValidator(judge, WithConcurrency(2))
	require.NoError(t, err)
	defer validator.Release()

	records, summary, err := validator.Validate(context.Background(), validationFixture())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.True(t, records[0].Validation.IsValidAlignment)
	assert.True(t, records[0].Validation.ValidationSuccess)
	assert.Equal(t, 0.9, records[0].Validation.Confidence)
	assert.Equal(t, "cognate translation", records[0].Validation.Reason)

	assert.False(t, records[2].Validation.IsValidAlignment)
	assert.True(t, records[2].Validation.ValidationSuccess)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
	assert.Equal(t, 0, summary.Errored)
	assert.InDelta(t, 0.8, summary.MeanConfidence, 1e-9)
}

func TestValidateDefaultJudgeHeuristic(t *testing.T) {
	validator, err := NewValidator(mock.NewJudge(), WithConcurrency(1))
	require.NoError(t, err)
	defer validator.Release()

	records, _, err := validator.Validate(context.Background(), []core.Alignment{
		{Part: "P1", SrcText: "Introduction", TgtText: "Introduzione"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Validation.IsValidAlignment)
	assert.True(t, records[0].Validation.ValidationSuccess)
}

func TestValidateJudgeErrorBecomesFailedVerdict(t *testing.T) {
	judge := mock.NewJudge()
	judge.JudgeAlignmentFunc = func(ctx context.Context, srcText, tgtText string) (ai.AlignmentJudgment, error) {
		if strings.Contains(srcText, "SIGNAL") {
			return ai.AlignmentJudgment{}, errors.New("model unavailable")
		}
		return ai.AlignmentJudgment{IsValid: true, Confidence: 0.8, Reason: "ok"}, nil
	}

	validator, err := NewValidator(judge)
	require.NoError(t, err)
	defer validator.Release()

	records, summary, err := validator.Validate(context.Background(), validationFixture())
	require.NoError(t, err, "one failed record must not fail the run")

	assert.False(t, records[2].Validation.ValidationSuccess)
	assert.Equal(t, "model unavailable", records[2].Validation.Error)
	assert.False(t, records[2].Validated())

	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 1, summary.Errored)
	assert.True(t, records[0].Validated())
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	input := validationFixture()

	validator, err := NewValidator(mock.NewJudge())
	require.NoError(t, err)
	defer validator.Release()

	_, _, err = validator.Validate(context.Background(), input)
	require.NoError(t, err)

	for i := range input {
		assert.False(t, input[i].Validation.ValidationSuccess, "input record %d was mutated", i)
	}
}

func TestValidateEmptyInput(t *testing.T) {
	validator, err := NewValidator(mock.NewJudge())
	require.NoError(t, err)
	defer validator.Release()

	records, summary, err := validator.Validate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, Summary{}, summary)
}

func TestValidateReportsProgress(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3, 1)

	validator, err := NewValidator(mock.NewJudge(), WithProgress(tracker), WithConcurrency(1))
	require.NoError(t, err)
	defer validator.Release()

	_, _, err = validator.Validate(context.Background(), validationFixture())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "3/3 (100.0%)")
}

func TestProgressTrackerBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
