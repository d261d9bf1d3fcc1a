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

package search

import "errors"

var (
	// ErrModelMismatch indicates the query embedder does not match the
	// model the index was built with. Vectors from different models
	// are not comparable, so this is refused at construction.
	ErrModelMismatch = errors.New("embedding model does not match index")

	// ErrEmptyQuery is returned for a blank query string.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrEmbedderRequired is returned when a searcher is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
