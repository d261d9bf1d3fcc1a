package ai

import "errors"

var (
	// ErrEmbeddingCountMismatch indicates the embedding service returned
	// a different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")

	// ErrUnparsableScore indicates the judge's reply contained no usable
	// numeric score.
	ErrUnparsableScore = errors.New("unparsable judge score")

	// ErrScoreOutOfRange indicates the judge returned a score outside [0,1].
	ErrScoreOutOfRange = errors.New("judge score out of [0,1] range")

	// ErrUnparsableVerdict indicates the judge's reply contained no usable
	// structured verdict.
	ErrUnparsableVerdict = errors.New("unparsable judge verdict")
)
