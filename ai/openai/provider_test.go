package openai

import (
	"testing"

	"github.com/poiesic/bitext/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderEmbedderIsCached(t *testing.T) {
	provider, err := NewProvider(ai.DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	embedder := provider.Embedder()
	require.NotNil(t, embedder)
	assert.IsType(t, &ai.CachedEmbedder{}, embedder)
	assert.Equal(t, ai.DefaultConfig().EmbeddingModel, embedder.ModelName())
}

func TestNewEmbedderIsCached(t *testing.T) {
	embedder, err := NewEmbedder(ai.DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &ai.CachedEmbedder{}, embedder)
}
