package core

import (
	"context"
	"image"

	"github.com/harpreet-2146/Prism/internal/models"
)

// DocumentEngine opens PDF documents for reading. Handles returned by Open
// are NOT safe for concurrent use; concurrent workers must each open their
// own handle to the same file.
type DocumentEngine interface {
	Open(path string) (DocumentHandle, error)
}

// DocumentHandle is one reader over an open PDF. Page numbers are 0-indexed
// at this boundary; the pipeline converts to 1-indexed page numbers.
type DocumentHandle interface {
	NumPages() int
	PageText(n int) (string, error)
	PageBounds(n int) (width, height float64, err error)
	RenderPage(n int, dpi float64) (image.Image, error)
	Metadata() map[string]string
	Close() error
}

// EmbeddedImage is a raster image physically contained in a PDF, as handed
// back by an EmbeddedImageSource before any filtering or re-encoding.
type EmbeddedImage struct {
	PageNumber int // 1-indexed
	Data       []byte
	FileType   string // "png", "jpg", ...
}

// EmbeddedImageSource enumerates the embedded raster images of a document.
type EmbeddedImageSource interface {
	ExtractImages(path string) ([]EmbeddedImage, error)
}

// RecognizeOutput is the raw result of one OCR engine attempt.
// Confidences are per-token scores on a 0-100 scale; engines that report
// nothing leave the slice empty and the service applies its fallback estimate.
type RecognizeOutput struct {
	Text        string
	Confidences []float64
}

// OCREngine is one text-recognition strategy. The OCR service tries engines
// in order and short-circuits on the first success.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, img []byte) (*RecognizeOutput, error)
}

// EmbeddingProvider converts texts into fixed-dimension vectors. Document and
// query modes may produce different vectors for the same text.
type EmbeddingProvider interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ImageStore persists extracted image bytes and hands back an opaque storage
// reference. It abstracts local disk vs S3 so the pipeline never cares which.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// DbClient defines all persistence operations the pipeline needs.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id, status, processingError string) error
	UpdateDocumentCounts(ctx context.Context, id string, pageCount, imageCount int) error

	// InsertImagesBatch writes all rows in a single transaction and returns
	// generated ids aligned with input order.
	InsertImagesBatch(ctx context.Context, images []models.DocumentImage) ([]string, error)

	// InsertEmbeddingsBatch writes all rows in a single transaction.
	InsertEmbeddingsBatch(ctx context.Context, embeddings []models.Embedding) error

	PendingOCRImages(ctx context.Context, documentID string) ([]models.DocumentImage, error)
	UpdateImageOCRBatch(ctx context.Context, results []models.OCRResult) error

	SearchEmbeddings(ctx context.Context, documentID string, queryVec []float32, limit int) ([]models.SearchResult, error)

	Close() error
}
