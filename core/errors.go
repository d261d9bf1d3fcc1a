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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidAlignment indicates an Alignment failed validation.
	ErrInvalidAlignment = errors.New("invalid alignment")

	// ErrInvalidVerdict indicates a Verdict failed validation.
	ErrInvalidVerdict = errors.New("invalid verdict")

	// ErrEmptyText indicates a text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidLanguage indicates an unknown language tag.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrNegativeChunkID indicates a chunk id below zero.
	ErrNegativeChunkID = errors.New("chunk id cannot be negative")

	// ErrConfidenceRange indicates a confidence outside [0,1].
	ErrConfidenceRange = errors.New("confidence must be in [0,1]")
)
