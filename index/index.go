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

package index

import (
	"fmt"
	"path/filepath"
)

// Hit is a single nearest-neighbor match. ID is the vector's position
// in insertion order, which is also its line number in the metadata
// file. Higher scores are better for every variant.
type Hit struct {
	ID    uint64
	Score float32
}

// Index is a vector index over a fixed embedding dimension. Vectors
// are assigned sequential IDs starting at zero.
type Index interface {
	// Add appends a vector to the index.
	Add(vec []float32) error

	// Search returns up to k hits ordered by descending score.
	// Equal scores are ordered by ascending ID.
	Search(query []float32, k int) ([]Hit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dim returns the embedding dimension.
	Dim() int

	// Save writes the index to path atomically.
	Save(path string) error
}

// New creates an empty index for a resolved variant.
func New(cfg Config) (Index, error) {
	switch cfg.Variant {
	case VariantFlatIP, VariantFlatL2:
		return NewFlat(cfg.Variant, cfg.Dim)
	case VariantHNSW:
		return NewHNSW(cfg.Dim, cfg.M, cfg.EfSearch), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
}

// Load opens a previously saved index directory and returns the index
// together with its configuration. The metadata file is not read here;
// callers pair the index with a MetadataStore separately.
func Load(dir string) (Index, Config, error) {
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return nil, Config{}, err
	}

	path := filepath.Join(dir, IndexFileName)
	var idx Index
	switch cfg.Variant {
	case VariantFlatIP, VariantFlatL2:
		idx, err = LoadFlat(path)
	case VariantHNSW:
		idx, err = LoadHNSW(path, cfg.Dim, cfg.M, cfg.EfSearch)
	default:
		return nil, Config{}, fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}
	if err != nil {
		return nil, Config{}, err
	}

	if idx.Len() != cfg.NumVectors {
		return nil, Config{}, fmt.Errorf("%w: config records %d vectors, index holds %d",
			ErrCardinalityMismatch, cfg.NumVectors, idx.Len())
	}
	return idx, cfg, nil
}
