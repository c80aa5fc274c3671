package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, 384, cfg.EmbeddingDim)
	assert.Equal(t, "cl100k_base", cfg.TokenizerEncoding)
	assert.Equal(t, 5, cfg.MaxRelations)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://example.com:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithEmbeddingDim(1536),
		WithTokenizerEncoding("o200k_base"),
		WithMaxRelations(3),
	)

	assert.Equal(t, "http://example.com:9100", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.EmbeddingDim)
	assert.Equal(t, "o200k_base", cfg.TokenizerEncoding)
	assert.Equal(t, 3, cfg.MaxRelations)
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "adds /v1 suffix", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "strips trailing slash", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "leaves /v1 alone", host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithEmbeddingHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero dimension", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingDim(0))
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero relation limit", func(t *testing.T) {
		cfg := NewConfig(WithMaxRelations(0))
		assert.Error(t, cfg.Validate())
	})
}
