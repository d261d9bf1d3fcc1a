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


// Package ai provides abstractions for the external AI services used in
// bitext.
//
// This package defines interfaces for the two external collaborators of
// the retrieval pipeline. It follows the dependency inversion principle,
// allowing the index builder, searcher, reranker, and validator to depend
// on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: generates fixed-dimension vector embeddings from text
//   - Judge: asks an instruction-following model for alignment verdicts
//     and relevance scores
//   - Provider: aggregates both services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles for unit testing without
//     external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, ...) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewEmbedder, mock.NewJudge) return concrete types to enable test
// assertions and behavior injection via function fields.
//
// # Caching
//
// CachedEmbedder wraps any Embedder with an LRU cache keyed by model name
// and text, so interactive query loops do not re-embed repeated input.
package ai
