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

package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/bitext/core"
)

// MetadataStore holds the alignment record behind each vector. Records
// are positional: line N of the metadata file belongs to vector ID N.
// The file is written once at build time; a malformed line on load is
// corruption, not input noise, and fails the load.
type MetadataStore struct {
	records []core.Alignment
}

// NewMetadataStore creates a store over records already in vector-ID
// order.
func NewMetadataStore(records []core.Alignment) *MetadataStore {
	return &MetadataStore{records: records}
}

// Get returns the alignment behind a vector ID.
func (s *MetadataStore) Get(id uint64) (core.Alignment, bool) {
	if id >= uint64(len(s.records)) {
		return core.Alignment{}, false
	}
	return s.records[id], true
}

// All returns the records in vector-ID order.
func (s *MetadataStore) All() []core.Alignment {
	return s.records
}

// Len returns the number of records.
func (s *MetadataStore) Len() int {
	return len(s.records)
}

// Save writes the records as JSONL via a temp file and rename.
func (s *MetadataStore) Save(path string) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create metadata file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for i := range s.records {
		if err := encoder.Encode(&s.records[i]); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode metadata record %d: %w", i, err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush metadata file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close metadata file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename metadata file: %w", err)
	}
	return nil
}

// LoadMetadata reads a metadata file written by Save.
func LoadMetadata(path string) (*MetadataStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []core.Alignment
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record core.Alignment
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, fmt.Errorf("%w: metadata line %d: %v", ErrCorruptIndex, line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	return NewMetadataStore(records), nil
}
