package embedding

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/models"
)

// emptyPlaceholder substitutes empty or whitespace-only inputs; the backend
// never receives an empty string.
const emptyPlaceholder = "[EMPTY]"

// Generator turns text batches into vectors through a pluggable backend,
// splitting input into backend-sized sub-batches. A failed sub-batch fails
// the whole call: callers never see partial embedding results.
type Generator struct {
	provider  core.EmbeddingProvider
	db        core.DbClient
	batchSize int
}

func NewGenerator(provider core.EmbeddingProvider, db core.DbClient, batchSize int) *Generator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Generator{provider: provider, db: db, batchSize: batchSize}
}

// EmbedOne embeds a single document text.
func (g *Generator) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", core.ErrEmptyInput)
	}
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in input order. Sub-batches are submitted to the
// backend sequentially and the outputs concatenated, so position i of the
// result always corresponds to texts[i].
func (g *Generator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prepared := make([]string, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			prepared[i] = emptyPlaceholder
		} else {
			prepared[i] = t
		}
	}

	out := make([][]float32, 0, len(prepared))
	for start := 0; start < len(prepared); start += g.batchSize {
		end := start + g.batchSize
		if end > len(prepared) {
			end = len(prepared)
		}

		vecs, err := g.provider.EmbedDocuments(ctx, prepared[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed sub-batch %d-%d: %w", start, end, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embed sub-batch %d-%d: backend returned %d vectors for %d texts", start, end, len(vecs), end-start)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a retrieval query; backends may use a distinct mode from
// document embedding.
func (g *Generator) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", core.ErrEmptyInput)
	}
	return g.provider.EmbedQuery(ctx, text)
}

// ProcessDocumentChunks embeds every chunk of a document and persists all
// resulting rows in one transaction, preserving (page_number, chunk_index)
// order.
func (g *Generator) ProcessDocumentChunks(ctx context.Context, documentID, userID string, chunks []models.Chunk) models.EmbedSummary {
	start := time.Now()
	summary := models.EmbedSummary{DocumentID: documentID}

	if len(chunks) == 0 {
		summary.Success = true
		return summary
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := g.EmbedBatch(ctx, texts)
	if err != nil {
		summary.Error = err.Error()
		return summary
	}

	rows := make([]models.Embedding, len(chunks))
	for i, c := range chunks {
		sourceType := c.SourceType
		if sourceType == "" {
			sourceType = models.SourceTypeText
		}
		rows[i] = models.Embedding{
			DocumentID:    documentID,
			UserID:        userID,
			ChunkIndex:    c.ChunkIndex,
			PageNumber:    c.PageNumber,
			Text:          c.Text,
			Vector:        vectors[i],
			SourceType:    sourceType,
			SourceImageID: c.SourceImageID,
		}
	}

	if err := g.db.InsertEmbeddingsBatch(ctx, rows); err != nil {
		summary.Error = fmt.Sprintf("%v: %v", core.ErrStorageWriteFailed, err)
		return summary
	}

	summary.ChunksProcessed = len(rows)
	summary.Dimension = len(vectors[0])
	summary.Duration = time.Since(start).Seconds()
	if summary.Duration > 0 {
		summary.ChunksPerSecond = float64(len(rows)) / summary.Duration
	}
	summary.Success = true

	log.Printf("embedding: document %s complete, %d chunks, dim %d, %.2fs",
		documentID, summary.ChunksProcessed, summary.Dimension, summary.Duration)

	return summary
}

// SearchSimilar embeds the query and ranks candidates by cosine similarity,
// descending. Ties keep input order (stable sort); at most topK results.
func (g *Generator) SearchSimilar(ctx context.Context, query string, candidates []models.Embedding, topK int) ([]models.SearchResult, error) {
	qvec, err := g.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, models.SearchResult{
			ID:         c.ID,
			Text:       c.Text,
			PageNumber: c.PageNumber,
			ChunkIndex: c.ChunkIndex,
			Similarity: CosineSimilarity(qvec, c.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|). Zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
