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

package ingestion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/bitext/core"
)

// maxLineSize bounds a single JSONL line. Alignment records hold full
// chunk texts, so the default scanner buffer is too small.
const maxLineSize = 16 * 1024 * 1024

// LoadStats counts the outcome of reading one JSONL file. Input files
// come from upstream extraction tools and occasionally carry damaged
// lines; those are skipped and counted, never silently dropped.
type LoadStats struct {
	Read      int // well-formed records returned
	Malformed int // lines that failed to parse or validate
}

// ReadChunks reads chunk records from a JSONL stream. Malformed lines
// are skipped and counted in the returned stats.
func ReadChunks(r io.Reader, logger *slog.Logger) ([]core.Chunk, LoadStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		chunks []core.Chunk
		stats  LoadStats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var chunk core.Chunk
		if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
			logger.Warn("skipping malformed chunk line", "line", line, "err", err)
			stats.Malformed++
			continue
		}
		if err := core.ValidateChunk(&chunk); err != nil {
			logger.Warn("skipping invalid chunk", "line", line, "err", err)
			stats.Malformed++
			continue
		}

		chunks = append(chunks, chunk)
		stats.Read++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read chunks: %w", err)
	}
	return chunks, stats, nil
}

// ReadAlignments reads alignment records from a JSONL stream.
// Malformed lines are skipped and counted in the returned stats.
func ReadAlignments(r io.Reader, logger *slog.Logger) ([]core.Alignment, LoadStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		alignments []core.Alignment
		stats      LoadStats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var alignment core.Alignment
		if err := json.Unmarshal(scanner.Bytes(), &alignment); err != nil {
			logger.Warn("skipping malformed alignment line", "line", line, "err", err)
			stats.Malformed++
			continue
		}
		if err := core.ValidateAlignment(&alignment); err != nil {
			logger.Warn("skipping invalid alignment", "line", line, "err", err)
			stats.Malformed++
			continue
		}

		alignments = append(alignments, alignment)
		stats.Read++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read alignments: %w", err)
	}
	return alignments, stats, nil
}

// ReadChunksFile reads chunk records from a JSONL file.
func ReadChunksFile(path string, logger *slog.Logger) ([]core.Chunk, LoadStats, error) {
	if path == "" {
		return nil, LoadStats{}, ErrChunksPathRequired
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer file.Close()
	return ReadChunks(file, logger)
}

// ReadAlignmentsFile reads alignment records from a JSONL file.
func ReadAlignmentsFile(path string, logger *slog.Logger) ([]core.Alignment, LoadStats, error) {
	if path == "" {
		return nil, LoadStats{}, ErrAlignmentsPathRequired
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer file.Close()
	return ReadAlignments(file, logger)
}

// LoadCorpus reads both input files and assembles an indexed corpus.
func LoadCorpus(chunksPath, alignmentsPath string, logger *slog.Logger) (*core.Corpus, LoadStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	chunks, chunkStats, err := ReadChunksFile(chunksPath, logger)
	if err != nil {
		return nil, chunkStats, err
	}
	alignments, alignmentStats, err := ReadAlignmentsFile(alignmentsPath, logger)
	if err != nil {
		return nil, alignmentStats, err
	}

	stats := LoadStats{
		Read:      chunkStats.Read + alignmentStats.Read,
		Malformed: chunkStats.Malformed + alignmentStats.Malformed,
	}

	logger.Info("corpus loaded",
		"chunks", chunkStats.Read,
		"alignments", alignmentStats.Read,
		"malformed", stats.Malformed)
	return core.NewCorpus(chunks, alignments), stats, nil
}

// WriteAlignments writes alignment records as JSONL.
func WriteAlignments(w io.Writer, alignments []core.Alignment) error {
	writer := bufio.NewWriter(w)
	encoder := json.NewEncoder(writer)
	for i := range alignments {
		if err := encoder.Encode(&alignments[i]); err != nil {
			return fmt.Errorf("encode alignment %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// WriteAlignmentsFile writes alignment records to a JSONL file via a
// temp file and rename.
func WriteAlignmentsFile(path string, alignments []core.Alignment) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create alignments file: %w", err)
	}

	if err := WriteAlignments(file, alignments); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close alignments file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename alignments file: %w", err)
	}
	return nil
}
