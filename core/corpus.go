package core

// chunkKey identifies a chunk within the corpus. Chunk ids are unique
// per language side, so (language, id) is a corpus-wide key.
type chunkKey struct {
	Lang Language
	ID   int
}

// Corpus is an explicitly constructed, immutable view of loaded chunks
// and alignments. Two lookup indexes are built once at construction:
// chunk (language, id) -> chunk, and chunk (language, id) -> owning
// alignments. A Corpus is safe for unlimited concurrent readers.
type Corpus struct {
	chunks     []Chunk
	alignments []Alignment

	chunkIndex     map[chunkKey]int
	alignmentIndex map[chunkKey][]int
}

// NewCorpus builds a Corpus from loaded records. The input slices are
// not copied; callers must not mutate them afterwards.
func NewCorpus(chunks []Chunk, alignments []Alignment) *Corpus {
	c := &Corpus{
		chunks:         chunks,
		alignments:     alignments,
		chunkIndex:     make(map[chunkKey]int, len(chunks)),
		alignmentIndex: make(map[chunkKey][]int),
	}

	for i := range chunks {
		key := chunkKey{Lang: chunks[i].Language, ID: chunks[i].ChunkID}
		if _, exists := c.chunkIndex[key]; !exists {
			c.chunkIndex[key] = i
		}
	}

	for i := range alignments {
		for _, ch := range alignments[i].SrcChunks {
			key := chunkKey{Lang: LanguageEnglish, ID: ch.ChunkID}
			c.alignmentIndex[key] = append(c.alignmentIndex[key], i)
		}
		for _, ch := range alignments[i].TgtChunks {
			key := chunkKey{Lang: LanguageItalian, ID: ch.ChunkID}
			c.alignmentIndex[key] = append(c.alignmentIndex[key], i)
		}
	}

	return c
}

// Chunks returns all chunks in load order.
func (c *Corpus) Chunks() []Chunk {
	return c.chunks
}

// Alignments returns all alignments in load order.
func (c *Corpus) Alignments() []Alignment {
	return c.alignments
}

// Chunk returns the chunk with the given language and id.
func (c *Corpus) Chunk(lang Language, id int) (Chunk, bool) {
	i, ok := c.chunkIndex[chunkKey{Lang: lang, ID: id}]
	if !ok {
		return Chunk{}, false
	}
	return c.chunks[i], true
}

// AlignmentsFor returns the alignments owning the given chunk, in load order.
func (c *Corpus) AlignmentsFor(lang Language, chunkID int) []Alignment {
	indices := c.alignmentIndex[chunkKey{Lang: lang, ID: chunkID}]
	if len(indices) == 0 {
		return nil
	}
	out := make([]Alignment, len(indices))
	for i, idx := range indices {
		out[i] = c.alignments[idx]
	}
	return out
}

// ValidatedAlignments returns only the alignments with a successful
// validation verdict, in load order.
func (c *Corpus) ValidatedAlignments() []Alignment {
	out := make([]Alignment, 0, len(c.alignments))
	for i := range c.alignments {
		if c.alignments[i].Validated() {
			out = append(out, c.alignments[i])
		}
	}
	return out
}
