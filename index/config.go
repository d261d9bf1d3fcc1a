package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/bitext/core"
)

// Artifact file names within an index directory. The three files form a
// unit: they are always written and replaced together.
const (
	IndexFileName    = "embeddings.idx"
	MetadataFileName = "metadata.jsonl"
	ConfigFileName   = "index_config.json"
)

// Variant selects the nearest-neighbor index structure.
type Variant string

const (
	// VariantFlatIP is exact inner-product search. Requires normalized
	// vectors, in which case inner product equals cosine similarity.
	VariantFlatIP Variant = "flat_ip"

	// VariantFlatL2 is exact Euclidean-distance search.
	VariantFlatL2 Variant = "flat_l2"

	// VariantHNSW is approximate graph search for larger corpora.
	// M is fixed at build time; EfSearch trades query latency for recall.
	VariantHNSW Variant = "hnsw"

	// VariantAuto picks VariantFlatIP below AutoVariantThreshold entries
	// and VariantHNSW at or above it.
	VariantAuto Variant = "auto"
)

// AutoVariantThreshold is the corpus size at which VariantAuto switches
// from exact to approximate search.
const AutoVariantThreshold = 100_000

// ResolveVariant resolves VariantAuto for a corpus of n entries.
func ResolveVariant(v Variant, n int) (Variant, error) {
	switch v {
	case VariantFlatIP, VariantFlatL2, VariantHNSW:
		return v, nil
	case VariantAuto:
		if n >= AutoVariantThreshold {
			return VariantHNSW, nil
		}
		return VariantFlatIP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

// Config records how an index was built. It is persisted alongside the
// index so queries can verify they use the same embedding space; an
// index queried under a different configuration is a usage error.
type Config struct {
	ModelName  string         `json:"model_name"`
	Dim        int            `json:"embedding_dim"`
	Normalized bool           `json:"normalize_embeddings"`
	Variant    Variant        `json:"index_variant"`
	TextField  core.TextField `json:"text_field"`
	NumVectors int            `json:"num_vectors"`
	M          int            `json:"hnsw_m,omitempty"`
	EfSearch   int            `json:"hnsw_ef_search,omitempty"`
}

// SaveConfig writes the configuration as indented JSON.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadConfig reads a configuration written by SaveConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode index config: %w", err)
	}
	return cfg, nil
}
