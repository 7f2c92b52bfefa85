package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/harpreet-2146/Prism/internal/config"
	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for a processing service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Documents

func (c *DatabaseClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO documents
			(id, user_id, file_name, storage_path, status, page_count, image_count, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q,
		doc.ID, doc.UserID, doc.FileName, doc.StoragePath, doc.Status, doc.PageCount, doc.ImageCount)
	return err
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `
		SELECT id, user_id, file_name, storage_path, status, page_count, image_count,
		       COALESCE(processing_error, ''), created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.UserID, &d.FileName, &d.StoragePath, &d.Status, &d.PageCount, &d.ImageCount,
		&d.ProcessingError, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) UpdateDocumentStatus(ctx context.Context, id, status, processingError string) error {
	const q = `
		UPDATE documents
		SET status = $2, processing_error = NULLIF($3, ''), updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, status, processingError)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

func (c *DatabaseClient) UpdateDocumentCounts(ctx context.Context, id string, pageCount, imageCount int) error {
	const q = `
		UPDATE documents
		SET page_count = $2, image_count = $3, updated_at = now()
		WHERE id = $1
	`
	_, err := c.db.ExecContext(ctx, q, id, pageCount, imageCount)
	return err
}

// Images

// InsertImagesBatch writes every row inside one transaction and returns the
// generated ids aligned with input order. Batch sizes in the hundreds turn
// into a single commit instead of one per row.
func (c *DatabaseClient) InsertImagesBatch(ctx context.Context, images []models.DocumentImage) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", core.ErrStorageWriteFailed, err)
	}

	const q = `
		INSERT INTO document_images
			(id, document_id, page_number, image_index, storage_path,
			 width, height, format, file_size, kind, ocr_status, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', now())
		RETURNING id
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%w: prepare: %v", core.ErrStorageWriteFailed, err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(images))
	for i := range images {
		img := &images[i]
		var id string
		if err := stmt.QueryRowContext(ctx,
			img.DocumentID, img.PageNumber, img.ImageIndex, img.StoragePath,
			img.Width, img.Height, img.Format, img.FileSize, img.Kind,
		).Scan(&id); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%w: insert image p%d #%d: %v", core.ErrStorageWriteFailed, img.PageNumber, img.ImageIndex, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", core.ErrStorageWriteFailed, err)
	}
	return ids, nil
}

func (c *DatabaseClient) PendingOCRImages(ctx context.Context, documentID string) ([]models.DocumentImage, error) {
	const q = `
		SELECT id, document_id, page_number, image_index, storage_path,
		       width, height, format, file_size, kind, ocr_status
		FROM document_images
		WHERE document_id = $1 AND ocr_status = 'pending'
		ORDER BY page_number, image_index
	`
	rows, err := c.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DocumentImage
	for rows.Next() {
		var img models.DocumentImage
		if err := rows.Scan(
			&img.ID, &img.DocumentID, &img.PageNumber, &img.ImageIndex, &img.StoragePath,
			&img.Width, &img.Height, &img.Format, &img.FileSize, &img.Kind, &img.OCRStatus,
		); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// UpdateImageOCRBatch persists one OCR sub-batch in a single transaction.
// Rows are matched by image id, not by position.
func (c *DatabaseClient) UpdateImageOCRBatch(ctx context.Context, results []models.OCRResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrStorageWriteFailed, err)
	}

	const q = `
		UPDATE document_images
		SET ocr_text = $2, ocr_confidence = $3, ocr_status = $4
		WHERE id = $1
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare: %v", core.ErrStorageWriteFailed, err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, r.ImageID, r.Text, r.Confidence, r.Status); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: update image %s: %v", core.ErrStorageWriteFailed, r.ImageID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrStorageWriteFailed, err)
	}
	return nil
}

// Embeddings

// InsertEmbeddingsBatch inserts all rows in a single transaction.
func (c *DatabaseClient) InsertEmbeddingsBatch(ctx context.Context, embeddings []models.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrStorageWriteFailed, err)
	}

	const q = `
		INSERT INTO embeddings
			(id, document_id, user_id, chunk_index, page_number, text,
			 embedding, source_type, source_image_id, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), now())
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare: %v", core.ErrStorageWriteFailed, err)
	}
	defer stmt.Close()

	for i := range embeddings {
		e := &embeddings[i]
		vec := pgvector.NewVector(e.Vector)
		if _, err := stmt.ExecContext(ctx,
			e.DocumentID, e.UserID, e.ChunkIndex, e.PageNumber, e.Text, vec, e.SourceType, e.SourceImageID,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert embedding p%d #%d: %v", core.ErrStorageWriteFailed, e.PageNumber, e.ChunkIndex, err)
		}
	}
	return tx.Commit()
}

// SearchEmbeddings finds the top-k nearest chunks for a query vector within
// a document, using pgvector cosine distance.
func (c *DatabaseClient) SearchEmbeddings(ctx context.Context, documentID string, queryVec []float32, limit int) ([]models.SearchResult, error) {
	const q = `
		SELECT id, text, page_number, chunk_index, 1 - (embedding <=> $2) AS similarity
		FROM embeddings
		WHERE document_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, documentID, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.ID, &r.Text, &r.PageNumber, &r.ChunkIndex, &r.Similarity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ core.DbClient = (*DatabaseClient)(nil)
