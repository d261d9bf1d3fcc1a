package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/bitext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataFixture() []core.Alignment {
	return []core.Alignment{
		{
			Part:          "P1",
			SrcText:       "AN EMERGENCY",
			TgtText:       "UN'EMERGENZA",
			SrcChunks:     []core.Chunk{{ChunkID: 10, Text: "AN EMERGENCY", Language: core.LanguageEnglish, Part: "P1"}},
			TgtChunks:     []core.Chunk{{ChunkID: 10, Text: "UN'EMERGENZA", Language: core.LanguageItalian, Part: "P1"}},
			AlignmentType: "1:1",
			Validation:    core.Verdict{IsValidAlignment: true, Confidence: 0.95, ValidationSuccess: true},
		},
		{
			Part:          "P1",
			SrcText:       "PASSENGER TRAIN",
			TgtText:       "TRENO PASSEGGERI",
			AlignmentType: "1:1",
		},
	}
}

func TestMetadataStoreLookup(t *testing.T) {
	store := NewMetadataStore(metadataFixture())
	require.Equal(t, 2, store.Len())

	record, ok := store.Get(0)
	require.True(t, ok)
	assert.Equal(t, "AN EMERGENCY", record.SrcText)

	record, ok = store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "PASSENGER TRAIN", record.SrcText)

	_, ok = store.Get(2)
	assert.False(t, ok)
}

func TestMetadataSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFileName)
	store := NewMetadataStore(metadataFixture())
	require.NoError(t, store.Save(path))

	loaded, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, store.All(), loaded.All())
}

func TestLoadMetadataRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataFileName)
	content := `{"part":"P1","src_text":"A","tgt_text":"B","alignment_type":"1:1","validation":{"is_valid_alignment":false,"confidence":0,"validation_success":false}}
{broken
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadMetadata(path)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestLoadMetadataMissingFile(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
