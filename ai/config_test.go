package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.JudgeHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.JudgeModel)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://example:8000/v1"),
		WithEmbeddingModel("minilm"),
		WithJudgeModel("qwen"),
		WithTimeout(5*time.Second),
	)

	assert.Equal(t, "http://example:8000/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://example:8000/v1", cfg.JudgeHost)
	assert.Equal(t, "minilm", cfg.EmbeddingModel)
	assert.Equal(t, "qwen", cfg.JudgeModel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://example:8000/v1/"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://example:8000/v1", cfg.EmbeddingHost)
	})

	t.Run("empty host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("  "))
		assert.ErrorIs(t, cfg.Validate(), ErrEmptyHost)
	})

	t.Run("empty model", func(t *testing.T) {
		cfg := NewConfig(WithJudgeModel(""))
		assert.ErrorIs(t, cfg.Validate(), ErrEmptyModel)
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := NewConfig(WithTimeout(0))
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTimeout)
	})
}

func TestConfig_ValidateEmbedding(t *testing.T) {
	t.Run("ignores judge settings", func(t *testing.T) {
		cfg := NewConfig(WithJudgeHost(""), WithJudgeModel(""))
		assert.NoError(t, cfg.ValidateEmbedding())
	})

	t.Run("empty embedding host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""))
		assert.ErrorIs(t, cfg.ValidateEmbedding(), ErrEmptyHost)
	})

	t.Run("empty embedding model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.ErrorIs(t, cfg.ValidateEmbedding(), ErrEmptyModel)
	})
}

func TestConfig_ValidateJudge(t *testing.T) {
	t.Run("ignores embedding settings", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""), WithEmbeddingModel(""))
		assert.NoError(t, cfg.ValidateJudge())
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithJudgeHost("http://example:8000/v1/"))
		require.NoError(t, cfg.ValidateJudge())
		assert.Equal(t, "http://example:8000/v1", cfg.JudgeHost)
	})

	t.Run("empty judge model", func(t *testing.T) {
		cfg := NewConfig(WithJudgeModel(""))
		assert.ErrorIs(t, cfg.ValidateJudge(), ErrEmptyModel)
	})
}
