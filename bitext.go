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


package bitext

import (
	"log/slog"

	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/ai/openai"
	"github.com/poiesic/bitext/index"
	"github.com/poiesic/bitext/lookup"
	"github.com/poiesic/bitext/rerank"
	"github.com/poiesic/bitext/search"
	"github.com/poiesic/bitext/storage"
	"github.com/poiesic/bitext/storage/badger"
	"github.com/poiesic/bitext/validate"
)

// Store bundles the persistent corpus repositories with the AI
// provider they share, and hands out the services built on top of
// them.
type Store struct {
	backend       *badger.Backend
	chunkRepo     storage.ChunkRepository
	alignmentRepo storage.AlignmentRepository
	provider      ai.Provider
	logger        *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) StoreOption {
	return func(o *storeOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemory opens the backing store in memory, without touching
// disk. Intended for tests and throwaway sessions.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

func Open(filePath string, opts ...StoreOption) (*Store, error) {
	// Apply options
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}
	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create alignment repository
	alignmentRepo, err := badger.NewAlignmentRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		alignmentRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Store{
		backend:       backend,
		chunkRepo:     chunkRepo,
		alignmentRepo: alignmentRepo,
		provider:      provider,
		logger:        slog.Default(),
	}, nil
}

func (s *Store) Close() error {
	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := s.alignmentRepo.Close(); err != nil {
		s.logger.Error("error closing alignment repository", "err", err)
		return err
	}
	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	// Close backend
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (s *Store) ChunkRepository() storage.ChunkRepository {
	return s.chunkRepo
}

func (s *Store) AlignmentRepository() storage.AlignmentRepository {
	return s.alignmentRepo
}

func (s *Store) Provider() ai.Provider {
	return s.provider
}

func (s *Store) NewLookupService(opts ...lookup.Option) (*lookup.Service, error) {
	return lookup.NewService(s.chunkRepo, s.alignmentRepo, opts...)
}

func (s *Store) NewIndexBuilder(opts ...index.BuilderOption) (*index.Builder, error) {
	return index.NewBuilder(s.provider.Embedder(), opts...)
}

func (s *Store) OpenSearcher(indexDir string, opts ...search.SearcherOption) (*search.Searcher, error) {
	return search.Open(indexDir, s.provider.Embedder(), opts...)
}

func (s *Store) NewReranker(opts ...rerank.Option) (*rerank.Reranker, error) {
	return rerank.NewReranker(s.provider.Judge(), opts...)
}

func (s *Store) NewValidator(opts ...validate.Option) (*validate.Validator, error) {
	return validate.NewValidator(s.provider.Judge(), opts...)
}
