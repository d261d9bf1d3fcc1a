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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/bitext/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Judge implements ai.Judge using OpenAI-compatible chat APIs.
type Judge struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// verdict is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type verdict struct {
	IsValidAlignment bool    `json:"is_valid_alignment"`
	Confidence       float64 `json:"confidence"`
	Reason           string  `json:"reason"`
}

// relevance is the wrapper structure for relevance-scoring responses.
type relevance struct {
	Score float64 `json:"score"`
}

// newJudge is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newJudge(config *ai.Config) (*Judge, error) {
	if err := config.ValidateJudge(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/judging
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.JudgeHost),
		openai.WithToken("none"),
		openai.WithModel(config.JudgeModel),
	)
	if err != nil {
		return nil, err
	}

	return &Judge{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-judge"),
	}, nil
}

// NewJudge creates a new judge using the provided configuration.
//
// Returns ai.Judge interface to enforce abstraction.
func NewJudge(config *ai.Config) (ai.Judge, error) {
	return newJudge(config)
}

// JudgeAlignment asks the model whether tgtText is a retrievable match
// for srcText and parses a structured verdict from the reply.
func (j *Judge) JudgeAlignment(ctx context.Context, srcText, tgtText string) (ai.AlignmentJudgment, error) {
	systemPrompt := fmt.Sprintf(alignmentPromptTemplate, alignmentResponseSchema)
	userPrompt := "SOURCE: " + srcText + "\nTARGET: " + tgtText

	raw, err := j.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return ai.AlignmentJudgment{}, err
	}

	var v verdict
	if err := unmarshalWithRepair(raw, &v); err != nil {
		j.logger.Debug("unparsable verdict", "response", raw, "err", err)
		return ai.AlignmentJudgment{}, fmt.Errorf("%w: %w", ai.ErrUnparsableVerdict, err)
	}

	if v.Confidence < 0 || v.Confidence > 1 {
		return ai.AlignmentJudgment{}, fmt.Errorf("%w: confidence %f", ai.ErrUnparsableVerdict, v.Confidence)
	}

	return ai.AlignmentJudgment{
		IsValid:    v.IsValidAlignment,
		Confidence: v.Confidence,
		Reason:     v.Reason,
	}, nil
}

// ScoreRelevance asks the model how relevant candidate is to query and
// parses a numeric score in [0,1] from the reply.
func (j *Judge) ScoreRelevance(ctx context.Context, query, candidate string) (float64, error) {
	systemPrompt := fmt.Sprintf(relevancePromptTemplate, relevanceResponseSchema)
	userPrompt := "QUERY: " + query + "\nPASSAGE: " + candidate

	raw, err := j.generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return 0, err
	}

	var r relevance
	if err := unmarshalWithRepair(raw, &r); err != nil {
		j.logger.Debug("unparsable score", "response", raw, "err", err)
		return 0, fmt.Errorf("%w: %w", ai.ErrUnparsableScore, err)
	}

	if r.Score < 0 || r.Score > 1 {
		return 0, fmt.Errorf("%w: %f", ai.ErrScoreOutOfRange, r.Score)
	}

	return r.Score, nil
}

// generate issues a single chat completion with JSON mode and zero
// temperature, bounded by the configured per-call timeout.
func (j *Judge) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := j.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		j.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrUnparsableVerdict)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// unmarshalWithRepair parses LLM JSON output, retrying once after
// repairJSON for sloppy model replies (stray prose, missing key quotes).
func unmarshalWithRepair(raw string, v any) error {
	candidate := extractJSONObject(raw)

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	repaired := repairJSON(candidate)
	return json.Unmarshal([]byte(repaired), v)
}

// extractJSONObject trims any text outside the outermost braces.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
