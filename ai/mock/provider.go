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

import "github.com/poiesic/bitext/ai"

// Provider is a test double for ai.Provider.
// It aggregates mock embedder and judge instances.
type Provider struct {
	embedder *Embedder
	judge    *Judge
}

// NewProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production
// constructors. Use GetMockEmbedder()/GetMockJudge() to access concrete
// types for test assertions.
func NewProvider() ai.Provider {
	return &Provider{
		embedder: NewEmbedder(),
		judge:    NewJudge(),
	}
}

// NewProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewProviderWithServices(embedder *Embedder, judge *Judge) ai.Provider {
	if embedder == nil {
		embedder = NewEmbedder()
	}
	if judge == nil {
		judge = NewJudge()
	}
	return &Provider{
		embedder: embedder,
		judge:    judge,
	}
}

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Judge returns the mock judging service.
func (p *Provider) Judge() ai.Judge {
	return p.judge
}

// Close is a no-op for mocks.
func (p *Provider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *Provider) GetMockEmbedder() *Embedder {
	return p.embedder
}

// GetMockJudge returns the concrete mock judge for test assertions.
func (p *Provider) GetMockJudge() *Judge {
	return p.judge
}
