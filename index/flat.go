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
	"os"
	"sort"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var flatVectorMUS = ord.NewSliceSer[float32](raw.Float32)

// Flat is an exact brute-force index. Every query scores every stored
// vector, so results are deterministic and recall is total. Intended
// for corpora small enough that a linear scan stays cheap.
type Flat struct {
	metric  Variant
	dim     int
	vectors [][]float32
}

// NewFlat creates an empty exact index. metric must be VariantFlatIP
// or VariantFlatL2.
func NewFlat(metric Variant, dim int) (*Flat, error) {
	switch metric {
	case VariantFlatIP, VariantFlatL2:
	default:
		return nil, fmt.Errorf("%w: %q is not a flat metric", ErrUnknownVariant, metric)
	}
	return &Flat{metric: metric, dim: dim}, nil
}

func (f *Flat) Add(vec []float32) error {
	if len(vec) != f.dim {
		return DimensionError{Expected: f.dim, Got: len(vec)}
	}
	stored := make([]float32, len(vec))
	copy(stored, vec)
	f.vectors = append(f.vectors, stored)
	return nil
}

// score is higher-is-better for both metrics. Inner product is used
// directly; Euclidean distance is negated.
func (f *Flat) score(query, vec []float32) float32 {
	if f.metric == VariantFlatIP {
		return dot(query, vec)
	}
	return -l2(query, vec)
}

func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != f.dim {
		return nil, DimensionError{Expected: f.dim, Got: len(query)}
	}
	if k <= 0 || len(f.vectors) == 0 {
		return nil, nil
	}

	hits := make([]Hit, len(f.vectors))
	for i, vec := range f.vectors {
		hits[i] = Hit{ID: uint64(i), Score: f.score(query, vec)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (f *Flat) Len() int { return len(f.vectors) }

func (f *Flat) Dim() int { return f.dim }

// Save writes the index to path via a temp file and rename, so a
// crash mid-write never leaves a truncated index behind.
func (f *Flat) Save(path string) error {
	size := varint.Int.Size(f.dim)
	size += ord.String.Size(string(f.metric))
	size += varint.Int.Size(len(f.vectors))
	for _, vec := range f.vectors {
		size += flatVectorMUS.Size(vec)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(f.dim, buf)
	n += ord.String.Marshal(string(f.metric), buf[n:])
	n += varint.Int.Marshal(len(f.vectors), buf[n:])
	for _, vec := range f.vectors {
		n += flatVectorMUS.Marshal(vec, buf[n:])
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf, 0644); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

// LoadFlat reads an index written by Save.
func LoadFlat(path string) (*Flat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dim, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	metricName, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	n += m
	count, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	n += m

	f, err := NewFlat(Variant(metricName), dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	f.vectors = make([][]float32, 0, count)
	for i := 0; i < count; i++ {
		vec, m, err := flatVectorMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector %d: %v", ErrCorruptIndex, i, err)
		}
		n += m
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d",
				ErrCorruptIndex, i, len(vec), dim)
		}
		f.vectors = append(f.vectors, vec)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptIndex, len(data)-n)
	}
	return f, nil
}
