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
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/coder/hnsw"
)

// Default HNSW parameters. M is the per-node connectivity; EfSearch is
// the candidate pool examined per query, the knob that trades latency
// for recall.
const (
	DefaultHNSWM        = 16
	DefaultHNSWEfSearch = 32
)

// HNSW is an approximate graph index over cosine distance. Vectors
// must be normalized before insertion; under unit vectors cosine
// ranking matches inner-product ranking, so the scores are comparable
// with VariantFlatIP.
type HNSW struct {
	graph *hnsw.Graph[uint64]
	dim   int
	m     int
	ef    int
	next  uint64
}

// NewHNSW creates an empty graph index. Zero m or efSearch fall back
// to the package defaults.
func NewHNSW(dim, m, efSearch int) *HNSW {
	if m == 0 {
		m = DefaultHNSWM
	}
	if efSearch == 0 {
		efSearch = DefaultHNSWEfSearch
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = m
	graph.EfSearch = efSearch
	graph.Ml = 0.25

	return &HNSW{graph: graph, dim: dim, m: m, ef: efSearch}
}

func (h *HNSW) Add(vec []float32) error {
	if len(vec) != h.dim {
		return DimensionError{Expected: h.dim, Got: len(vec)}
	}
	stored := make([]float32, len(vec))
	copy(stored, vec)

	h.graph.Add(hnsw.MakeNode(h.next, stored))
	h.next++
	return nil
}

func (h *HNSW) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != h.dim {
		return nil, DimensionError{Expected: h.dim, Got: len(query)}
	}
	if k <= 0 || h.graph.Len() == 0 {
		return nil, nil
	}

	nodes := h.graph.Search(query, k)

	// The graph orders by distance but guarantees nothing between
	// equal-distance neighbors. Re-sort with the ID tie-break so
	// results are stable across runs.
	hits := make([]Hit, 0, len(nodes))
	for _, node := range nodes {
		score := 1.0 - h.graph.Distance(query, node.Value)
		hits = append(hits, Hit{ID: node.Key, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	return hits, nil
}

func (h *HNSW) Len() int { return h.graph.Len() }

func (h *HNSW) Dim() int { return h.dim }

// Save exports the graph to path via a temp file and rename.
func (h *HNSW) Save(path string) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := h.graph.Export(file); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("export graph: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

// LoadHNSW reads a graph written by Save. The dimension and search
// parameters come from the index configuration, not the graph file.
func LoadHNSW(path string, dim, m, efSearch int) (*HNSW, error) {
	h := NewHNSW(dim, m, efSearch)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Import requires an io.ByteReader.
	if err := h.graph.Import(bufio.NewReader(file)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	h.graph.EfSearch = h.ef
	h.next = uint64(h.graph.Len())
	return h, nil
}
