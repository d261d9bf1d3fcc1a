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

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the core types. Field order is the wire format;
// changing it breaks every existing database.
var (
	IDMUS        = idMUS{}
	ChunkMUS     = chunkMUS{}
	VerdictMUS   = verdictMUS{}
	AlignmentMUS = alignmentMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type chunkMUS struct{}

func (chunkMUS) Marshal(chunk Chunk, bs []byte) int {
	n := varint.Int.Marshal(chunk.ChunkID, bs)
	n += ord.String.Marshal(chunk.Text, bs[n:])
	n += ord.String.Marshal(string(chunk.Language), bs[n:])
	n += ord.String.Marshal(chunk.Part, bs[n:])
	n += ord.String.Marshal(chunk.Page, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (Chunk, int, error) {
	var chunk Chunk

	chunkID, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return chunk, n, err
	}
	chunk.ChunkID = chunkID

	text, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.Text = text

	language, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.Language = Language(language)

	part, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.Part = part

	page, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.Page = page

	return chunk, n, nil
}

func (chunkMUS) Size(chunk Chunk) int {
	size := varint.Int.Size(chunk.ChunkID)
	size += ord.String.Size(chunk.Text)
	size += ord.String.Size(string(chunk.Language))
	size += ord.String.Size(chunk.Part)
	size += ord.String.Size(chunk.Page)
	return size
}

type verdictMUS struct{}

func (verdictMUS) Marshal(verdict Verdict, bs []byte) int {
	n := ord.Bool.Marshal(verdict.IsValidAlignment, bs)
	n += raw.Float64.Marshal(verdict.Confidence, bs[n:])
	n += ord.String.Marshal(verdict.Reason, bs[n:])
	n += ord.Bool.Marshal(verdict.ValidationSuccess, bs[n:])
	n += ord.String.Marshal(verdict.Error, bs[n:])
	return n
}

func (verdictMUS) Unmarshal(bs []byte) (Verdict, int, error) {
	var verdict Verdict

	isValid, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return verdict, n, err
	}
	verdict.IsValidAlignment = isValid

	confidence, m, err := raw.Float64.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return verdict, n, err
	}
	verdict.Confidence = confidence

	reason, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return verdict, n, err
	}
	verdict.Reason = reason

	success, m, err := ord.Bool.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return verdict, n, err
	}
	verdict.ValidationSuccess = success

	errText, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return verdict, n, err
	}
	verdict.Error = errText

	return verdict, n, nil
}

func (verdictMUS) Size(verdict Verdict) int {
	size := ord.Bool.Size(verdict.IsValidAlignment)
	size += raw.Float64.Size(verdict.Confidence)
	size += ord.String.Size(verdict.Reason)
	size += ord.Bool.Size(verdict.ValidationSuccess)
	size += ord.String.Size(verdict.Error)
	return size
}

type alignmentMUS struct{}

func (alignmentMUS) Marshal(alignment Alignment, bs []byte) int {
	n := ord.String.Marshal(alignment.Part, bs)
	n += ord.String.Marshal(alignment.SrcText, bs[n:])
	n += ord.String.Marshal(alignment.TgtText, bs[n:])
	n += marshalChunks(alignment.SrcChunks, bs[n:])
	n += marshalChunks(alignment.TgtChunks, bs[n:])
	n += ord.String.Marshal(alignment.AlignmentType, bs[n:])
	n += VerdictMUS.Marshal(alignment.Validation, bs[n:])
	return n
}

func (alignmentMUS) Unmarshal(bs []byte) (Alignment, int, error) {
	var alignment Alignment

	part, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return alignment, n, err
	}
	alignment.Part = part

	srcText, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.SrcText = srcText

	tgtText, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.TgtText = tgtText

	srcChunks, m, err := unmarshalChunks(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.SrcChunks = srcChunks

	tgtChunks, m, err := unmarshalChunks(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.TgtChunks = tgtChunks

	alignmentType, m, err := ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.AlignmentType = alignmentType

	verdict, m, err := VerdictMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return alignment, n, err
	}
	alignment.Validation = verdict

	return alignment, n, nil
}

func (alignmentMUS) Size(alignment Alignment) int {
	size := ord.String.Size(alignment.Part)
	size += ord.String.Size(alignment.SrcText)
	size += ord.String.Size(alignment.TgtText)
	size += sizeChunks(alignment.SrcChunks)
	size += sizeChunks(alignment.TgtChunks)
	size += ord.String.Size(alignment.AlignmentType)
	size += VerdictMUS.Size(alignment.Validation)
	return size
}

func marshalChunks(chunks []Chunk, bs []byte) int {
	n := varint.Int.Marshal(len(chunks), bs)
	for _, chunk := range chunks {
		n += ChunkMUS.Marshal(chunk, bs[n:])
	}
	return n
}

func unmarshalChunks(bs []byte) ([]Chunk, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}

	chunks := make([]Chunk, 0, count)
	for i := 0; i < count; i++ {
		chunk, m, err := ChunkMUS.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, n, nil
}

func sizeChunks(chunks []Chunk) int {
	size := varint.Int.Size(len(chunks))
	for _, chunk := range chunks {
		size += ChunkMUS.Size(chunk)
	}
	return size
}
