package pdf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harpreet-2146/Prism/internal/models"
)

func wordsText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkWords_SingleChunk(t *testing.T) {
	t.Run("short text returned whole", func(t *testing.T) {
		text := wordsText(120)
		chunks := ChunkWords(text, 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("exactly chunk size returned whole", func(t *testing.T) {
		text := wordsText(500)
		chunks := ChunkWords(text, 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})
}

func TestChunkWords_Overlap(t *testing.T) {
	text := wordsText(1200)
	chunks := ChunkWords(text, 500, 50)
	require.Greater(t, len(chunks), 1)

	// Every chunk after the first starts 50 words before the previous
	// chunk's end.
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		cur := strings.Fields(chunks[i])

		overlap := prev[len(prev)-50:]
		n := 50
		if len(cur) < n {
			n = len(cur)
		}
		assert.Equal(t, overlap[:n], cur[:n], "chunk %d overlap mismatch", i)
	}

	// Concatenating chunks with the overlap removed reconstructs the
	// original word sequence exactly.
	rebuilt := strings.Fields(chunks[0])
	for i := 1; i < len(chunks); i++ {
		words := strings.Fields(chunks[i])
		if len(words) > 50 {
			rebuilt = append(rebuilt, words[50:]...)
		}
	}
	assert.Equal(t, strings.Fields(text), rebuilt)
}

func TestChunkWords_Deterministic(t *testing.T) {
	text := wordsText(777)
	assert.Equal(t, ChunkWords(text, 500, 50), ChunkWords(text, 500, 50))
}

func TestBuildChunks(t *testing.T) {
	pages := []models.Page{
		{PageNumber: 1, Text: wordsText(800), WordCount: 800},
		{PageNumber: 2, Text: "", WordCount: 0},
		{PageNumber: 3, Text: wordsText(10), WordCount: 10},
	}

	chunks := BuildChunks(pages, 500, 50)
	require.Len(t, chunks, 3) // page 1 -> 2 chunks, page 3 -> 1 chunk

	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[1].PageNumber)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
	assert.Equal(t, 3, chunks[2].PageNumber)
	assert.Equal(t, 0, chunks[2].ChunkIndex)

	for _, c := range chunks {
		assert.Equal(t, models.SourceTypeText, c.SourceType)
	}
}
