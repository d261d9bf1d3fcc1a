package lookup

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when no chunk repository
	// is provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrAlignmentRepositoryRequired is returned when no alignment
	// repository is provided.
	ErrAlignmentRepositoryRequired = errors.New("alignment repository required")

	// ErrEmptyExcerpt is returned when a lookup excerpt is blank.
	ErrEmptyExcerpt = errors.New("empty excerpt")
)
