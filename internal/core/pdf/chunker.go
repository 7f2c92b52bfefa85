package pdf

import (
	"strings"

	"github.com/harpreet-2146/Prism/internal/models"
)

// Default chunking parameters, in words.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkWords splits text into overlapping word windows of at most size words.
// If the text fits in one window it is returned unmodified as a single chunk.
// Each subsequent window starts overlap words before the previous window's
// end; the last window may be shorter. Pure function: identical input always
// yields identical chunks.
func ChunkWords(text string, size, overlap int) []string {
	words := strings.Fields(text)

	if len(words) <= size {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(words); start += size - overlap {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// BuildChunks chunks every page and assigns per-page 0-indexed chunk indices,
// preserving (page_number, chunk_index) ordering. Pages with no words yield
// no chunks.
func BuildChunks(pages []models.Page, size, overlap int) []models.Chunk {
	var out []models.Chunk
	for _, page := range pages {
		if page.WordCount == 0 {
			continue
		}
		for i, text := range ChunkWords(page.Text, size, overlap) {
			out = append(out, models.Chunk{
				Text:       text,
				PageNumber: page.PageNumber,
				ChunkIndex: i,
				SourceType: models.SourceTypeText,
			})
		}
	}
	return out
}
