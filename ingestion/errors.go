package ingestion

import "errors"

var (
	// ErrChunksPathRequired is returned when no chunks file is given.
	ErrChunksPathRequired = errors.New("chunks path required")

	// ErrAlignmentsPathRequired is returned when no alignments file is
	// given.
	ErrAlignmentsPathRequired = errors.New("alignments path required")
)
