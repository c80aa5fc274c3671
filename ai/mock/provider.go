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


package mock

import "github.com/poiesic/docsearch/ai"

// MockProvider is a test double for ai.ModelProvider.
// It aggregates mock embedder, tokenizer, and extractor instances.
type MockProvider struct {
	embedder  *MockEmbedder
	tokenizer *MockTokenizer
	extractor *MockRelationExtractor
	dim       int
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.ModelProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockTokenizer()/GetMockExtractor() to access concrete
// types for test assertions.
func NewMockProvider() ai.ModelProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		tokenizer: NewMockTokenizer(),
		extractor: NewMockRelationExtractor(),
		dim:       384,
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, tokenizer *MockTokenizer, extractor *MockRelationExtractor) ai.ModelProvider {
	dim := 384
	if embedder != nil && embedder.Dim > 0 {
		dim = embedder.Dim
	}
	return &MockProvider{
		embedder:  embedder,
		tokenizer: tokenizer,
		extractor: extractor,
		dim:       dim,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Tokenizer returns the mock tokenizer.
func (p *MockProvider) Tokenizer() ai.Tokenizer {
	return p.tokenizer
}

// RelationExtractor returns the mock relation extractor.
func (p *MockProvider) RelationExtractor() ai.RelationExtractor {
	return p.extractor
}

// Dim returns the dimensionality of vectors produced by the mock embedder.
func (p *MockProvider) Dim() int {
	return p.dim
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockTokenizer returns the underlying mock tokenizer for test assertions.
func (p *MockProvider) GetMockTokenizer() *MockTokenizer {
	return p.tokenizer
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockExtractor() *MockRelationExtractor {
	return p.extractor
}
