package models

import (
	"time"
)

// Document processing statuses.
const (
	DocStatusPending    = "pending"
	DocStatusProcessing = "processing"
	DocStatusCompleted  = "completed"
	DocStatusFailed     = "failed"
)

// OCR statuses for a document image.
const (
	OCRStatusPending   = "pending"
	OCRStatusCompleted = "completed"
	OCRStatusFailed    = "failed"
)

// Image kinds.
const (
	ImageKindPageRender = "page_render"
	ImageKindEmbedded   = "embedded"
)

// Embedding source types.
const (
	SourceTypeText  = "text"
	SourceTypeImage = "image"
)

// Document represents an ingested PDF document.
type Document struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	FileName        string    `db:"file_name" json:"file_name"`
	StoragePath     string    `db:"storage_path" json:"storage_path"`
	Status          string    `db:"status" json:"status"` // pending | processing | completed | failed
	PageCount       int       `db:"page_count" json:"page_count"`
	ImageCount      int       `db:"image_count" json:"image_count"`
	ProcessingError string    `db:"processing_error" json:"processing_error,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Page holds the extracted content of one PDF page. Pages are transient:
// they are consumed to produce chunks and to drive image extraction, never
// persisted as rows.
type Page struct {
	PageNumber int     `json:"page_number"` // 1-indexed
	Text       string  `json:"text"`
	WordCount  int     `json:"word_count"`
	Width      float64 `json:"width"`    // points
	Height     float64 `json:"height"`   // points
	Category   string  `json:"category"` // best-effort keyword label, "unknown" if nothing matches
}

// Metadata is the document-level information read from the PDF header.
type Metadata struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
	PageCount        int    `json:"page_count"`
	FileSize         int64  `json:"file_size"`
}

// Chunk is one word-window of a page's text, the unit submitted for embedding.
type Chunk struct {
	Text          string `json:"text"`
	PageNumber    int    `json:"page_number"`
	ChunkIndex    int    `json:"chunk_index"` // 0-indexed, stable within a page
	SourceType    string `json:"source_type"` // "text" or "image"
	SourceImageID string `json:"source_image_id,omitempty"`
}

// DocumentImage is a persisted image extracted from a document: either a
// full-page render (image_index 0) or an embedded raster (image_index >= 1).
type DocumentImage struct {
	ID            string    `db:"id" json:"id"`
	DocumentID    string    `db:"document_id" json:"document_id"`
	PageNumber    int       `db:"page_number" json:"page_number"`
	ImageIndex    int       `db:"image_index" json:"image_index"`
	StoragePath   string    `db:"storage_path" json:"storage_path"`
	Width         int       `db:"width" json:"width"`
	Height        int       `db:"height" json:"height"`
	Format        string    `db:"format" json:"format"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	Kind          string    `db:"kind" json:"kind"`             // page_render | embedded
	OCRStatus     string    `db:"ocr_status" json:"ocr_status"` // pending | completed | failed
	OCRText       string    `db:"ocr_text" json:"ocr_text,omitempty"`
	OCRConfidence float64   `db:"ocr_confidence" json:"ocr_confidence"` // 0-100
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Embedding is a persisted vector for a text chunk or an OCR'd image.
type Embedding struct {
	ID            string    `db:"id" json:"id"`
	DocumentID    string    `db:"document_id" json:"document_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ChunkIndex    int       `db:"chunk_index" json:"chunk_index"`
	PageNumber    int       `db:"page_number" json:"page_number"`
	Text          string    `db:"text" json:"text"`
	Vector        []float32 `db:"embedding" json:"embedding"`     // pgvector column
	SourceType    string    `db:"source_type" json:"source_type"` // "text" or "image"
	SourceImageID string    `db:"source_image_id" json:"source_image_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// OCRResult is the outcome of recognizing one image. Batch results arrive in
// completion order; callers match them back to rows by ImageID.
type OCRResult struct {
	ImageID    string  `json:"image_id"`
	ImagePath  string  `json:"image_path"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100
	Status     string  `json:"status"`     // completed | failed
	Engine     string  `json:"engine"`     // which engine produced the text
	WordCount  int     `json:"word_count"`
	Duration   float64 `json:"duration"` // seconds
	Error      string  `json:"error,omitempty"`
}

// ProcessResult is the document-level outcome of the text pipeline.
type ProcessResult struct {
	DocumentID string      `json:"document_id"`
	Metadata   Metadata    `json:"metadata"`
	Pages      []Page      `json:"pages"`
	Chunks     []Chunk     `json:"chunks"`
	WordCounts map[int]int `json:"word_counts"`
	TotalPages int         `json:"total_pages"`
	TotalWords int         `json:"total_words"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
}

// OCRSummary aggregates a document-level OCR run.
type OCRSummary struct {
	DocumentID    string  `json:"document_id"`
	Processed     int     `json:"images_processed"`
	Successful    int     `json:"images_successful"`
	Failed        int     `json:"images_failed"`
	TotalWords    int     `json:"total_words"`
	AvgConfidence float64 `json:"average_confidence"`
	Duration      float64 `json:"duration"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
}

// EmbedSummary aggregates a document-level embedding run.
type EmbedSummary struct {
	DocumentID      string  `json:"document_id"`
	ChunksProcessed int     `json:"chunks_processed"`
	Dimension       int     `json:"embedding_dimension"`
	Duration        float64 `json:"duration"`
	ChunksPerSecond float64 `json:"chunks_per_second"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
}

// SearchResult is one ranked candidate from a similarity search.
type SearchResult struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	PageNumber int     `json:"page_number"`
	ChunkIndex int     `json:"chunk_index"`
	Similarity float64 `json:"similarity_score"`
}
