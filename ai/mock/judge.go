package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/bitext/ai"
)

// Judge is a test double for ai.Judge.
// It allows custom behavior injection via function fields.
type Judge struct {
	// JudgeAlignmentFunc is called by JudgeAlignment if set.
	// If nil, uses default deterministic behavior.
	JudgeAlignmentFunc func(ctx context.Context, srcText, tgtText string) (ai.AlignmentJudgment, error)

	// ScoreRelevanceFunc is called by ScoreRelevance if set.
	// If nil, uses default deterministic behavior.
	ScoreRelevanceFunc func(ctx context.Context, query, candidate string) (float64, error)

	// Counters are mutex-guarded; judges are called from worker pools.
	mu         sync.Mutex
	judgeCalls int
	scoreCalls int
}

// NewJudge creates a mock judge with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewJudge() *Judge {
	return &Judge{}
}

// JudgeAlignment returns a deterministic verdict. The default heuristic
// treats the alignment as valid when the two texts share a substantial
// common prefix after lowercasing, which holds for cognate translation
// pairs used in tests ("Introduction"/"Introduzione").
func (m *Judge) JudgeAlignment(ctx context.Context, srcText, tgtText string) (ai.AlignmentJudgment, error) {
	m.mu.Lock()
	m.judgeCalls++
	m.mu.Unlock()

	if m.JudgeAlignmentFunc != nil {
		return m.JudgeAlignmentFunc(ctx, srcText, tgtText)
	}

	src := strings.ToLower(strings.TrimSpace(srcText))
	tgt := strings.ToLower(strings.TrimSpace(tgtText))

	shared := commonPrefixLen(src, tgt)
	longest := max(len(src), len(tgt))

	if longest == 0 {
		return ai.AlignmentJudgment{Reason: "empty texts"}, nil
	}

	confidence := float64(shared) / float64(longest)
	if confidence > 1 {
		confidence = 1
	}
	if shared >= 4 {
		return ai.AlignmentJudgment{
			IsValid:    true,
			Confidence: confidence,
			Reason:     "texts share a common stem",
		}, nil
	}
	return ai.AlignmentJudgment{
		IsValid:    false,
		Confidence: 1 - confidence,
		Reason:     "texts do not resemble each other",
	}, nil
}

// ScoreRelevance returns the fraction of query words found in candidate.
func (m *Judge) ScoreRelevance(ctx context.Context, query, candidate string) (float64, error) {
	m.mu.Lock()
	m.scoreCalls++
	m.mu.Unlock()

	if m.ScoreRelevanceFunc != nil {
		return m.ScoreRelevanceFunc(ctx, query, candidate)
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0, nil
	}

	haystack := strings.ToLower(candidate)
	matched := 0
	for _, word := range queryWords {
		if strings.Contains(haystack, word) {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords)), nil
}

// JudgeCallCount returns the number of JudgeAlignment calls.
func (m *Judge) JudgeCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.judgeCalls
}

// ScoreCallCount returns the number of ScoreRelevance calls.
func (m *Judge) ScoreCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreCalls
}

// Reset clears the call counts and custom functions.
func (m *Judge) Reset() {
	m.mu.Lock()
	m.judgeCalls = 0
	m.scoreCalls = 0
	m.mu.Unlock()
	m.JudgeAlignmentFunc = nil
	m.ScoreRelevanceFunc = nil
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
