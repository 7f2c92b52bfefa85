package embedding

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harpreet-2146/Prism/internal/models"
)

// fakeProvider hashes each text into a deterministic 4-dim vector and
// records every sub-batch it receives.
type fakeProvider struct {
	batches   [][]string
	failBatch int // 1-based index of the sub-batch call that errors, 0 = never
	queryVec  []float32
}

func (p *fakeProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	p.batches = append(p.batches, texts)
	if p.failBatch > 0 && len(p.batches) == p.failBatch {
		return nil, fmt.Errorf("backend unreachable")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		var sum float32
		for _, r := range t {
			sum += float32(r)
		}
		out[i] = []float32{sum, float32(len(t)), 1, 0}
	}
	return out, nil
}

func (p *fakeProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if p.queryVec != nil {
		return p.queryVec, nil
	}
	return []float32{1, 0, 0, 0}, nil
}

type fakeDB struct {
	inserted  []models.Embedding
	insertErr error
}

func (d *fakeDB) CreateDocument(ctx context.Context, doc *models.Document) error { return nil }
func (d *fakeDB) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	return nil, nil
}
func (d *fakeDB) UpdateDocumentStatus(ctx context.Context, id, status, e string) error { return nil }
func (d *fakeDB) UpdateDocumentCounts(ctx context.Context, id string, p, i int) error  { return nil }
func (d *fakeDB) InsertImagesBatch(ctx context.Context, imgs []models.DocumentImage) ([]string, error) {
	return nil, nil
}
func (d *fakeDB) InsertEmbeddingsBatch(ctx context.Context, rows []models.Embedding) error {
	if d.insertErr != nil {
		return d.insertErr
	}
	d.inserted = append(d.inserted, rows...)
	return nil
}
func (d *fakeDB) PendingOCRImages(ctx context.Context, id string) ([]models.DocumentImage, error) {
	return nil, nil
}
func (d *fakeDB) UpdateImageOCRBatch(ctx context.Context, r []models.OCRResult) error { return nil }
func (d *fakeDB) SearchEmbeddings(ctx context.Context, id string, v []float32, l int) ([]models.SearchResult, error) {
	return nil, nil
}
func (d *fakeDB) Close() error { return nil }

func TestEmbedBatch_OrderAndPlaceholder(t *testing.T) {
	provider := &fakeProvider{}
	g := NewGenerator(provider, &fakeDB{}, 128)

	vecs, err := g.EmbedBatch(context.Background(), []string{"hello", "", "world"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// All vectors share the backend dimension.
	for _, v := range vecs {
		assert.Len(t, v, 4)
	}

	// The empty string was substituted before reaching the backend.
	require.Len(t, provider.batches, 1)
	assert.Equal(t, []string{"hello", emptyPlaceholder, "world"}, provider.batches[0])
}

func TestEmbedBatch_SubBatching(t *testing.T) {
	provider := &fakeProvider{}
	g := NewGenerator(provider, &fakeDB{}, 2)

	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := g.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vecs, 5)

	require.Len(t, provider.batches, 3)
	assert.Equal(t, []string{"a", "b"}, provider.batches[0])
	assert.Equal(t, []string{"c", "d"}, provider.batches[1])
	assert.Equal(t, []string{"e"}, provider.batches[2])

	// Output order matches input order across sub-batch boundaries.
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vecs[i][1])
	}
}

func TestEmbedBatch_AllOrNothing(t *testing.T) {
	provider := &fakeProvider{failBatch: 2}
	g := NewGenerator(provider, &fakeDB{}, 2)

	vecs, err := g.EmbedBatch(context.Background(), []string{"a", "b", "c", "d"})
	require.Error(t, err)
	assert.Nil(t, vecs, "no partial results on sub-batch failure")
}

func TestProcessDocumentChunks(t *testing.T) {
	provider := &fakeProvider{}
	db := &fakeDB{}
	g := NewGenerator(provider, db, 128)

	chunks := []models.Chunk{
		{Text: "first chunk", PageNumber: 1, ChunkIndex: 0},
		{Text: "second chunk", PageNumber: 1, ChunkIndex: 1},
		{Text: "third chunk", PageNumber: 2, ChunkIndex: 0},
	}

	summary := g.ProcessDocumentChunks(context.Background(), "doc-1", "user-1", chunks)
	require.True(t, summary.Success, summary.Error)
	assert.Equal(t, 3, summary.ChunksProcessed)
	assert.Equal(t, 4, summary.Dimension)

	require.Len(t, db.inserted, 3)
	for i, row := range db.inserted {
		assert.Equal(t, "doc-1", row.DocumentID)
		assert.Equal(t, "user-1", row.UserID)
		assert.Equal(t, chunks[i].PageNumber, row.PageNumber)
		assert.Equal(t, chunks[i].ChunkIndex, row.ChunkIndex)
		assert.Equal(t, models.SourceTypeText, row.SourceType)
	}
}

func TestProcessDocumentChunks_InsertFailure(t *testing.T) {
	db := &fakeDB{insertErr: fmt.Errorf("commit failed")}
	g := NewGenerator(&fakeProvider{}, db, 128)

	summary := g.ProcessDocumentChunks(context.Background(), "doc-1", "user-1",
		[]models.Chunk{{Text: "x", PageNumber: 1}})
	assert.False(t, summary.Success)
	assert.Contains(t, summary.Error, "commit failed")
}

func TestSearchSimilar(t *testing.T) {
	provider := &fakeProvider{queryVec: []float32{1, 0, 0, 0}}
	g := NewGenerator(provider, &fakeDB{}, 128)

	candidates := []models.Embedding{
		{ID: "low", Vector: []float32{0.1, 1, 0, 0}},
		{ID: "exact", Vector: []float32{2, 0, 0, 0}},
		{ID: "tie-a", Vector: []float32{1, 1, 0, 0}},
		{ID: "tie-b", Vector: []float32{2, 2, 0, 0}}, // same direction as tie-a
	}

	results, err := g.SearchSimilar(context.Background(), "query", candidates, 5)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "exact", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)

	// Descending similarity, ties broken by input order.
	assert.Equal(t, "tie-a", results[1].ID)
	assert.Equal(t, "tie-b", results[2].ID)
	assert.Equal(t, "low", results[3].ID)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Similarity, results[i-1].Similarity)
	}
}

func TestSearchSimilar_TopK(t *testing.T) {
	g := NewGenerator(&fakeProvider{}, &fakeDB{}, 128)

	candidates := []models.Embedding{
		{ID: "a", Vector: []float32{1, 0, 0, 0}},
		{ID: "b", Vector: []float32{0, 1, 0, 0}},
	}

	results, err := g.SearchSimilar(context.Background(), "query", candidates, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// topK larger than the candidate set returns everything.
	results, err = g.SearchSimilar(context.Background(), "query", candidates, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestEmbedQuery_Empty(t *testing.T) {
	g := NewGenerator(&fakeProvider{}, &fakeDB{}, 128)

	_, err := g.EmbedQuery(context.Background(), "   ")
	assert.Error(t, err)
}
