package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName identifies the embedding model. An index queried with a
	// different model than it was built with is a usage error, so the
	// name travels with every embedder.
	ModelName() string
}

// AlignmentJudgment is the structured answer of the external judge to the
// question "is the target text a retrievable match for the source text".
type AlignmentJudgment struct {
	// IsValid is the judge's verdict on the alignment.
	IsValid bool

	// Confidence is the judge's confidence in the verdict, in [0,1].
	Confidence float64

	// Reason is a free-text justification.
	Reason string
}

// Judge scores texts using an external instruction-following model.
// Implementations must be thread-safe for concurrent use.
type Judge interface {
	// JudgeAlignment asks whether tgtText is a retrievable match for
	// srcText and parses a structured verdict from the reply.
	// Returns an error if the call fails or the reply cannot be parsed.
	JudgeAlignment(ctx context.Context, srcText, tgtText string) (AlignmentJudgment, error)

	// ScoreRelevance asks how relevant candidate is to query and parses
	// a numeric score in [0,1] from the reply. An unparsable or
	// out-of-range score is an error, never silently clamped.
	ScoreRelevance(ctx context.Context, query, candidate string) (float64, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Judge
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Judge returns the relevance/validation judging service.
	// The returned Judge is safe for concurrent use.
	Judge() Judge

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
