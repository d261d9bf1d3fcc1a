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

package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/storage"
)

// AlignmentRepository implements storage.AlignmentRepository for BadgerDB.
type AlignmentRepository struct {
	backend *Backend
}

var _ storage.AlignmentRepository = (*AlignmentRepository)(nil)

// NewAlignmentRepository creates a new AlignmentRepository.
func NewAlignmentRepository(backend *Backend) (*AlignmentRepository, error) {
	return &AlignmentRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is shared and must
// be closed by its owner.
func (r *AlignmentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *AlignmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAlignments stores alignments under their content-derived IDs and
// maintains the per-chunk index.
func (r *AlignmentRepository) AddAlignments(ctx context.Context, alignments ...*core.Alignment) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, alignment := range alignments {
			id := alignment.ID()

			key := makeAlignmentKey(id)
			if err := tx.Set(key, storage.MarshalAlignment(alignment)); err != nil {
				return err
			}
			if err := updateChunkIndex(tx, alignment, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateAlignments replaces existing alignments. The content ID covers
// only part and texts, so attaching a verdict keeps the ID stable.
func (r *AlignmentRepository) UpdateAlignments(ctx context.Context, alignments ...*core.Alignment) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, alignment := range alignments {
			id := alignment.ID()
			key := makeAlignmentKey(id)

			old, err := readAlignment(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := tx.Set(key, storage.MarshalAlignment(alignment)); err != nil {
				return err
			}

			// Rebuild index entries in case chunk lists changed.
			if err := deleteChunkIndex(tx, old, id); err != nil {
				return err
			}
			if err := updateChunkIndex(tx, alignment, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteAlignments removes alignments and their index entries.
func (r *AlignmentRepository) DeleteAlignments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAlignmentKey(id)
			alignment, err := readAlignment(tx, key)
			if err != nil {
				return err
			}
			if alignment == nil {
				return storage.ErrNotFound
			}

			if err := deleteChunkIndex(tx, alignment, id); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAlignment retrieves a single alignment by ID.
func (r *AlignmentRepository) GetAlignment(ctx context.Context, id core.ID) (*core.Alignment, error) {
	var result *core.Alignment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		alignment, err := readAlignment(tx, makeAlignmentKey(id))
		if err != nil {
			return err
		}
		if alignment == nil {
			return storage.ErrNotFound
		}
		result = alignment
		return nil
	}, false)
	return result, err
}

// GetAlignments retrieves multiple alignments by their IDs.
func (r *AlignmentRepository) GetAlignments(ctx context.Context, ids ...core.ID) ([]*core.Alignment, error) {
	var result []*core.Alignment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			alignment, err := readAlignment(tx, makeAlignmentKey(id))
			if err != nil {
				return err
			}
			if alignment != nil {
				result = append(result, alignment)
			}
		}
		return nil
	}, false)
	return result, err
}

// AlignmentsForChunk retrieves every alignment referencing the chunk.
func (r *AlignmentRepository) AlignmentsForChunk(ctx context.Context, lang core.Language, chunkID int) ([]*core.Alignment, error) {
	var results []*core.Alignment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkAlignmentKey(lang, chunkID)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			alignment, err := readIndexedAlignment(tx, iter.Item())
			if err != nil {
				return err
			}
			if alignment != nil {
				results = append(results, alignment)
			}
		}
		return nil
	}, false)
	return results, err
}

// ValidatedForChunk retrieves the alignment to surface for a chunk.
// A validated alignment on the chunk itself wins; otherwise the search
// falls back to the nearest smaller chunk id with one. Chunk ids are
// ordered within a language side, so a lower neighbor still points at
// nearby text.
func (r *AlignmentRepository) ValidatedForChunk(ctx context.Context, lang core.Language, chunkID int) (*core.Alignment, bool, error) {
	var (
		result *core.Alignment
		exact  bool
	)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Exact pass: ascending alignment ids, first validated wins.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkAlignmentKey(lang, chunkID)

		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			alignment, err := readIndexedAlignment(tx, iter.Item())
			if err != nil {
				iter.Close()
				return err
			}
			if alignment != nil && alignment.Validated() {
				result = alignment
				exact = true
				iter.Close()
				return nil
			}
		}
		iter.Close()

		// Fallback pass: walk chunk ids downward from the target and
		// stop at the first chunk carrying a validated alignment.
		return r.findFallback(tx, lang, chunkID, &result)
	}, false)

	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, storage.ErrNotFound
	}
	return result, exact, nil
}

// findFallback locates the validated alignment for the largest chunk
// id below the target. Within that chunk the smallest alignment id is
// chosen so repeated lookups return the same record.
func (r *AlignmentRepository) findFallback(tx *badger.Txn, lang core.Language, chunkID int, result **core.Alignment) error {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true

	iter := tx.NewIterator(opts)
	defer iter.Close()

	langPrefix := makeChunkAlignmentLangPrefix(lang)
	// The partial key sorts before every full entry of the target
	// chunk, so a reverse seek lands on the last entry below it.
	startKey := makePartialChunkAlignmentKey(lang, chunkID)

	currentChunk := -1
	var best *core.Alignment

	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if !bytes.HasPrefix(key, langPrefix) {
			break
		}

		cid, ok := chunkIDFromIndexKey(lang, key)
		if !ok || cid >= chunkID {
			continue
		}
		if currentChunk != -1 && cid != currentChunk && best != nil {
			break
		}
		currentChunk = cid

		alignment, err := readIndexedAlignment(tx, iter.Item())
		if err != nil {
			return err
		}
		if alignment != nil && alignment.Validated() {
			// Reverse order yields descending alignment ids; the last
			// validated one seen for this chunk has the smallest id.
			best = alignment
		}
	}

	*result = best
	return nil
}

// CountAlignments returns the number of stored alignments.
func (r *AlignmentRepository) CountAlignments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(alignmentRecordPrefix + ":")
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// readAlignment reads an alignment from the transaction.
// Returns nil without error when the key is absent.
func readAlignment(tx *badger.Txn, key []byte) (*core.Alignment, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var alignment *core.Alignment
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		alignment, unmarshalErr = storage.UnmarshalAlignment(val)
		return unmarshalErr
	})
	return alignment, err
}

// readIndexedAlignment resolves an alignment index entry to its record.
func readIndexedAlignment(tx *badger.Txn, item *badger.Item) (*core.Alignment, error) {
	var alignmentID core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		alignmentID, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}
	return readAlignment(tx, makeAlignmentKey(alignmentID))
}

// updateChunkIndex adds index entries for every chunk the alignment
// references, on both language sides.
func updateChunkIndex(tx *badger.Txn, alignment *core.Alignment, id core.ID) error {
	value := storage.MarshalID(id)
	for _, chunk := range alignment.SrcChunks {
		key := makeChunkAlignmentKey(chunk.Language, chunk.ChunkID, id)
		if err := tx.Set(key, value); err != nil {
			return err
		}
	}
	for _, chunk := range alignment.TgtChunks {
		key := makeChunkAlignmentKey(chunk.Language, chunk.ChunkID, id)
		if err := tx.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// deleteChunkIndex removes the alignment's index entries.
func deleteChunkIndex(tx *badger.Txn, alignment *core.Alignment, id core.ID) error {
	for _, chunk := range alignment.SrcChunks {
		if err := tx.Delete(makeChunkAlignmentKey(chunk.Language, chunk.ChunkID, id)); err != nil {
			return err
		}
	}
	for _, chunk := range alignment.TgtChunks {
		if err := tx.Delete(makeChunkAlignmentKey(chunk.Language, chunk.ChunkID, id)); err != nil {
			return err
		}
	}
	return nil
}
