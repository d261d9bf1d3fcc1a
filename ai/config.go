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
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// JudgeHost is the base URL for the judge service API.
	// Example: "http://localhost:8000/v1" for local OpenAI-compatible server
	JudgeHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "paraphrase-multilingual-minilm"
	EmbeddingModel string

	// JudgeModel is the model identifier to use for alignment validation
	// and relevance scoring.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	JudgeModel string

	// Timeout bounds each individual call to an external service.
	// A call exceeding the timeout is reported as a per-item failure.
	// Default: 60s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithJudgeHost sets the judge service host URL.
func WithJudgeHost(host string) ConfigOption {
	return func(c *Config) {
		c.JudgeHost = host
	}
}

// WithHost sets both embedding and judge hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.JudgeHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithJudgeModel sets the judge model identifier.
func WithJudgeModel(model string) ConfigOption {
	return func(c *Config) {
		c.JudgeModel = model
	}
}

// WithTimeout sets the per-call timeout for external services.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both embedding and judge use
// the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		JudgeHost:      defaultHost,
		EmbeddingModel: "embeddinggemma",
		JudgeModel:     "qwen2.5:3b",
		Timeout:        60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("paraphrase-multilingual-minilm"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Config validation errors
var (
	// ErrEmptyHost indicates a missing service host URL.
	ErrEmptyHost = errors.New("service host cannot be empty")

	// ErrEmptyModel indicates a missing model identifier.
	ErrEmptyModel = errors.New("model cannot be empty")

	// ErrInvalidTimeout indicates a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// ValidateEmbedding checks the embedding half of the configuration and
// normalizes its host URL. Judge settings are ignored, so a tool that
// only embeds needs no judge configuration.
func (c *Config) ValidateEmbedding() error {
	c.EmbeddingHost = strings.TrimRight(strings.TrimSpace(c.EmbeddingHost), "/")

	if c.EmbeddingHost == "" {
		return ErrEmptyHost
	}
	if c.EmbeddingModel == "" {
		return ErrEmptyModel
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// ValidateJudge checks the judge half of the configuration and
// normalizes its host URL. Embedding settings are ignored.
func (c *Config) ValidateJudge() error {
	c.JudgeHost = strings.TrimRight(strings.TrimSpace(c.JudgeHost), "/")

	if c.JudgeHost == "" {
		return ErrEmptyHost
	}
	if c.JudgeModel == "" {
		return ErrEmptyModel
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Validate checks the full configuration and normalizes host URLs.
// Trailing slashes on hosts are trimmed.
func (c *Config) Validate() error {
	if err := c.ValidateEmbedding(); err != nil {
		return err
	}
	return c.ValidateJudge()
}
