package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/core/embedding"
	"github.com/harpreet-2146/Prism/internal/core/images"
	"github.com/harpreet-2146/Prism/internal/core/ocr"
	"github.com/harpreet-2146/Prism/internal/core/pdf"
	"github.com/harpreet-2146/Prism/internal/models"
)

// Limits caps the sizes callers may submit through the service API.
type Limits struct {
	ChunkSize     int
	ChunkOverlap  int
	OCRMaxBatch   int
	EmbedMaxBatch int
}

func DefaultLimits() Limits {
	return Limits{
		ChunkSize:     pdf.DefaultChunkSize,
		ChunkOverlap:  pdf.DefaultChunkOverlap,
		OCRMaxBatch:   50,
		EmbedMaxBatch: 500,
	}
}

// ProcessingService orchestrates the ingestion pipeline: text extraction and
// chunking, image extraction, OCR and embeddings, with document status
// bookkeeping around each stage.
type ProcessingService struct {
	db        core.DbClient
	processor *pdf.Processor
	extractor *images.Extractor
	ocr       *ocr.Service
	embedder  *embedding.Generator
	limits    Limits
}

func NewProcessingService(db core.DbClient, processor *pdf.Processor, extractor *images.Extractor, ocrSvc *ocr.Service, embedder *embedding.Generator, limits Limits) *ProcessingService {
	if limits.ChunkSize < 1 {
		limits.ChunkSize = pdf.DefaultChunkSize
	}
	if limits.OCRMaxBatch < 1 {
		limits.OCRMaxBatch = 50
	}
	if limits.EmbedMaxBatch < 1 {
		limits.EmbedMaxBatch = 500
	}
	return &ProcessingService{
		db:        db,
		processor: processor,
		extractor: extractor,
		ocr:       ocrSvc,
		embedder:  embedder,
		limits:    limits,
	}
}

// CreateDocument registers a new document row in pending state.
func (s *ProcessingService) CreateDocument(ctx context.Context, userID, fileName, storagePath string) (*models.Document, error) {
	doc := &models.Document{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    fileName,
		StoragePath: storagePath,
		Status:      models.DocStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (s *ProcessingService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.db.GetDocumentByID(ctx, id)
}

// ProcessDocument runs the text stage for one document: metadata, per-page
// text, chunks and word totals. The document moves to processing first and
// ends completed or failed; a failure records its message on the row.
func (s *ProcessingService) ProcessDocument(ctx context.Context, documentID, path string) models.ProcessResult {
	result := models.ProcessResult{DocumentID: documentID}

	doc, err := s.db.GetDocumentByID(ctx, documentID)
	if err != nil || doc == nil {
		result.Error = fmt.Sprintf("document %s not found: %v", documentID, err)
		return result
	}

	if err := s.db.UpdateDocumentStatus(ctx, documentID, models.DocStatusProcessing, ""); err != nil {
		result.Error = fmt.Sprintf("mark processing: %v", err)
		return result
	}

	md, err := s.processor.Metadata(path)
	if err != nil {
		return s.failDocument(ctx, result, err)
	}

	pages, wordCounts, err := s.processor.ExtractText(path)
	if err != nil {
		return s.failDocument(ctx, result, err)
	}

	chunks := pdf.BuildChunks(pages, s.limits.ChunkSize, s.limits.ChunkOverlap)

	totalWords := 0
	for _, wc := range wordCounts {
		totalWords += wc
	}

	if err := s.db.UpdateDocumentCounts(ctx, documentID, len(pages), doc.ImageCount); err != nil {
		return s.failDocument(ctx, result, err)
	}
	if err := s.db.UpdateDocumentStatus(ctx, documentID, models.DocStatusCompleted, ""); err != nil {
		result.Error = fmt.Sprintf("mark completed: %v", err)
		return result
	}

	result.Metadata = md
	result.Pages = pages
	result.Chunks = chunks
	result.WordCounts = wordCounts
	result.TotalPages = len(pages)
	result.TotalWords = totalWords
	result.Success = true

	log.Printf("services: document %s processed, %d pages, %d chunks, %d words",
		documentID, result.TotalPages, len(chunks), totalWords)

	return result
}

func (s *ProcessingService) failDocument(ctx context.Context, result models.ProcessResult, cause error) models.ProcessResult {
	result.Error = cause.Error()
	if err := s.db.UpdateDocumentStatus(ctx, result.DocumentID, models.DocStatusFailed, cause.Error()); err != nil {
		log.Printf("services: mark document %s failed: %v", result.DocumentID, err)
	}
	return result
}

// Metadata reads document information without touching document state.
func (s *ProcessingService) Metadata(path string) (models.Metadata, error) {
	return s.processor.Metadata(path)
}

// ExtractImages pulls page renders and embedded images out of the document,
// persists the descriptors as one batch and returns them with assigned ids.
func (s *ProcessingService) ExtractImages(ctx context.Context, documentID, path string) ([]models.DocumentImage, error) {
	doc, err := s.db.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("document lookup: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s not found", documentID)
	}

	wordCounts, err := s.processor.WordCounts(path)
	if err != nil {
		return nil, err
	}

	imgs, err := s.extractor.ExtractAll(ctx, path, documentID, wordCounts)
	if err != nil {
		return nil, err
	}
	if len(imgs) == 0 {
		return nil, nil
	}

	ids, err := s.db.InsertImagesBatch(ctx, imgs)
	if err != nil {
		return nil, err
	}
	for i := range imgs {
		imgs[i].ID = ids[i]
	}

	if err := s.db.UpdateDocumentCounts(ctx, documentID, doc.PageCount, len(imgs)); err != nil {
		return nil, fmt.Errorf("update image count: %w", err)
	}
	return imgs, nil
}

// RunOCRImage recognizes a single image by storage reference.
func (s *ProcessingService) RunOCRImage(ctx context.Context, imageID, ref string) models.OCRResult {
	return s.ocr.ProcessImage(ctx, imageID, ref)
}

// RunOCRBatch recognizes up to OCRMaxBatch images concurrently. Results come
// back in completion order.
func (s *ProcessingService) RunOCRBatch(ctx context.Context, items []ocr.ImageRef) ([]models.OCRResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no images given", core.ErrEmptyInput)
	}
	if len(items) > s.limits.OCRMaxBatch {
		return nil, fmt.Errorf("%w: %d images, maximum is %d", core.ErrBatchTooLarge, len(items), s.limits.OCRMaxBatch)
	}
	return s.ocr.ProcessBatch(ctx, items), nil
}

// RunOCRForDocument recognizes every pending image of a document.
func (s *ProcessingService) RunOCRForDocument(ctx context.Context, documentID string) models.OCRSummary {
	return s.ocr.ProcessDocument(ctx, documentID)
}

// EmbedOne embeds a single text.
func (s *ProcessingService) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return s.embedder.EmbedOne(ctx, text)
}

// EmbedBatch embeds up to EmbedMaxBatch texts, preserving input order.
func (s *ProcessingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts given", core.ErrEmptyInput)
	}
	if len(texts) > s.limits.EmbedMaxBatch {
		return nil, fmt.Errorf("%w: %d texts, maximum is %d", core.ErrBatchTooLarge, len(texts), s.limits.EmbedMaxBatch)
	}
	return s.embedder.EmbedBatch(ctx, texts)
}

// EmbedDocumentChunks embeds and persists all chunks for a document.
func (s *ProcessingService) EmbedDocumentChunks(ctx context.Context, documentID, userID string, chunks []models.Chunk) models.EmbedSummary {
	return s.embedder.ProcessDocumentChunks(ctx, documentID, userID, chunks)
}

// Search embeds the query and ranks the document's stored embeddings by
// cosine similarity in the database.
func (s *ProcessingService) Search(ctx context.Context, documentID, query string, topK int) ([]models.SearchResult, error) {
	if topK < 1 {
		topK = 5
	}
	qvec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.db.SearchEmbeddings(ctx, documentID, qvec, topK)
}
