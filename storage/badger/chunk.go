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
	"context"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is shared and must
// be closed by its owner.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks stores one or more chunks, replacing existing keys.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Language, chunk.ChunkID)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by (language, chunk id).
func (r *ChunkRepository) GetChunk(ctx context.Context, lang core.Language, chunkID int) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		chunk, err := readChunk(tx, makeChunkKey(lang, chunkID))
		if err != nil {
			return err
		}
		if chunk == nil {
			return storage.ErrNotFound
		}
		result = chunk
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks on one language side.
func (r *ChunkRepository) GetChunks(ctx context.Context, lang core.Language, chunkIDs ...int) ([]*core.Chunk, error) {
	var result []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunkID := range chunkIDs {
			chunk, err := readChunk(tx, makeChunkKey(lang, chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				result = append(result, chunk)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteChunks removes chunks by key.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, lang core.Language, chunkIDs ...int) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunkID := range chunkIDs {
			key := makeChunkKey(lang, chunkID)
			chunk, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if chunk == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindChunkByText scans one language side for the first chunk whose
// text contains excerpt, matched case-insensitively. Keys order the
// scan by ascending chunk id, so the lowest matching id wins.
func (r *ChunkRepository) FindChunkByText(ctx context.Context, lang core.Language, excerpt string) (*core.Chunk, error) {
	needle := strings.ToLower(excerpt)
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkLangPrefix(lang)

		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				chunk, unmarshalErr = storage.UnmarshalChunk(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			if strings.Contains(strings.ToLower(chunk.Text), needle) {
				result = chunk
				return nil
			}
		}
		return storage.ErrNotFound
	}, false)
	return result, err
}

// CountChunks returns the number of stored chunks on one side.
func (r *ChunkRepository) CountChunks(ctx context.Context, lang core.Language) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkLangPrefix(lang)
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

// readChunk reads a chunk from the transaction.
// Returns nil without error when the key is absent.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
