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


package openai

import (
	"log/slog"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/ai/rules"
)

// Provider implements ai.ModelProvider using an OpenAI-compatible embedding
// service, the tiktoken tokenizer, and the rule-based relation extractor.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	tokenizer *Tokenizer
	extractor ai.RelationExtractor
	logger    *slog.Logger
}

// NewProvider creates a new model provider.
// The config is validated and normalized before use.
//
// Returns ai.ModelProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.ModelProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		tokenizer: newTokenizer(config),
		extractor: rules.NewExtractor(),
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Tokenizer returns the token counting service.
func (p *Provider) Tokenizer() ai.Tokenizer {
	return p.tokenizer
}

// RelationExtractor returns the relation extraction service.
func (p *Provider) RelationExtractor() ai.RelationExtractor {
	return p.extractor
}

// Dim returns the configured embedding dimensionality.
func (p *Provider) Dim() int {
	return p.config.EmbeddingDim
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
