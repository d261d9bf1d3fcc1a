package index

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrNoRecords indicates the builder received no indexable records.
	ErrNoRecords = errors.New("no indexable records")

	// ErrUnknownVariant indicates an unrecognized index variant name.
	ErrUnknownVariant = errors.New("unknown index variant")

	// ErrNormalizationRequired indicates an inner-product variant was
	// requested without vector normalization.
	ErrNormalizationRequired = errors.New("inner-product index requires normalized vectors")

	// ErrCardinalityMismatch indicates the index and metadata store do
	// not hold the same number of entries.
	ErrCardinalityMismatch = errors.New("index and metadata cardinality mismatch")

	// ErrCorruptIndex indicates an index file that cannot be decoded.
	ErrCorruptIndex = errors.New("corrupt index file")
)

// DimensionError reports a vector whose dimensionality does not match
// the index.
type DimensionError struct {
	Expected int
	Got      int
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}
