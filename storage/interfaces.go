package storage

import (
	"context"

	"github.com/poiesic/bitext/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing chunk records.
// Chunks are keyed by (language, chunk id); a chunk id is unique
// within its language side.
type ChunkRepository interface {
	Repository

	// AddChunks stores one or more chunks, replacing any existing
	// chunk with the same (language, chunk id) key.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) error

	// GetChunk retrieves a single chunk.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, lang core.Language, chunkID int) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks on one language side.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, lang core.Language, chunkIDs ...int) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by key.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, lang core.Language, chunkIDs ...int) error

	// FindChunkByText returns the chunk with the lowest chunk id on
	// one language side whose text contains excerpt, matched
	// case-insensitively.
	// Returns ErrNotFound if no chunk matches.
	FindChunkByText(ctx context.Context, lang core.Language, excerpt string) (*core.Chunk, error)

	// CountChunks returns the number of stored chunks on one side.
	CountChunks(ctx context.Context, lang core.Language) (int, error)
}

// AlignmentRepository provides operations for managing alignment records.
type AlignmentRepository interface {
	Repository

	// AddAlignments stores one or more alignments under their
	// content-derived IDs and maintains the per-chunk index.
	// Re-adding an alignment with identical content overwrites it.
	AddAlignments(ctx context.Context, alignments ...*core.Alignment) error

	// UpdateAlignments replaces existing alignments, typically to
	// attach verdicts after a validation run.
	// Returns ErrNotFound if any alignment doesn't exist.
	UpdateAlignments(ctx context.Context, alignments ...*core.Alignment) error

	// DeleteAlignments removes alignments by ID, along with their
	// per-chunk index entries.
	// Returns ErrNotFound if any alignment doesn't exist.
	DeleteAlignments(ctx context.Context, ids ...core.ID) error

	// GetAlignment retrieves a single alignment by ID.
	// Returns ErrNotFound if the alignment doesn't exist.
	GetAlignment(ctx context.Context, id core.ID) (*core.Alignment, error)

	// GetAlignments retrieves multiple alignments by their IDs.
	// Returns only the alignments that exist (no error for missing records).
	GetAlignments(ctx context.Context, ids ...core.ID) ([]*core.Alignment, error)

	// AlignmentsForChunk retrieves every alignment that references the
	// given chunk on the given language side.
	AlignmentsForChunk(ctx context.Context, lang core.Language, chunkID int) ([]*core.Alignment, error)

	// ValidatedForChunk retrieves the alignment to surface for a chunk.
	// It returns a validated alignment referencing the chunk itself
	// when one exists (exact=true); otherwise the validated alignment
	// for the largest chunk id below it (exact=false).
	// Returns ErrNotFound when no validated alignment qualifies.
	ValidatedForChunk(ctx context.Context, lang core.Language, chunkID int) (alignment *core.Alignment, exact bool, err error)

	// CountAlignments returns the number of stored alignments.
	CountAlignments(ctx context.Context) (int, error)
}
