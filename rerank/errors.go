package rerank

import "errors"

var (
	// ErrJudgeRequired is returned when a reranker is constructed
	// without a judge.
	ErrJudgeRequired = errors.New("judge required")

	// ErrTooFewScored indicates too many candidates failed relevance
	// scoring for the reranked order to be trustworthy. Callers should
	// fall back to the original vector order.
	ErrTooFewScored = errors.New("too few candidates scored")
)
