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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for model service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingDim is the output width of the embedding model. The vector
	// index is opened with this dimension; a mismatch between config and
	// index is detected at startup, not at request time.
	// Default: 384 (all-MiniLM class models)
	EmbeddingDim int

	// TokenizerEncoding is the tiktoken encoding used for token counting.
	// Default: "cl100k_base"
	TokenizerEncoding string

	// MaxRelations is the maximum number of triples extracted per child chunk.
	// Default: 5
	MaxRelations int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingDim sets the embedding vector dimensionality.
func WithEmbeddingDim(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDim = dim
	}
}

// WithTokenizerEncoding sets the tiktoken encoding name.
func WithTokenizerEncoding(encoding string) ConfigOption {
	return func(c *Config) {
		c.TokenizerEncoding = encoding
	}
}

// WithMaxRelations sets the per-chunk triple extraction limit.
func WithMaxRelations(max int) ConfigOption {
	return func(c *Config) {
		c.MaxRelations = max
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible embedding services.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:     "http://localhost:11434/v1",
		EmbeddingModel:    "embeddinggemma",
		EmbeddingDim:      384,
		TokenizerEncoding: "cl100k_base",
		MaxRelations:      5,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingHost("http://localhost:11434/v1"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	    ai.WithEmbeddingDim(1536),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures host URLs are in the format the OpenAI-compatible
// clients expect (ending in /v1).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingDim < 1 {
		return errors.New("ai config: EmbeddingDim must be positive")
	}
	if c.TokenizerEncoding == "" {
		return errors.New("ai config: TokenizerEncoding is required")
	}
	if c.MaxRelations < 1 {
		return errors.New("ai config: MaxRelations must be positive")
	}
	return nil
}
