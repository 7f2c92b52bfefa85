package handlers

import (
	"fmt"
	"net/http"

	"github.com/harpreet-2146/Prism/internal/models"
	"github.com/harpreet-2146/Prism/internal/services"
)

type EmbeddingHandler struct {
	svc *services.ProcessingService
}

func NewEmbeddingHandler(svc *services.ProcessingService) *EmbeddingHandler {
	return &EmbeddingHandler{svc: svc}
}

type embedRequest struct {
	Text string `json:"text"`
}

// Generate embeds a single text.
func (h *EmbeddingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vec, err := h.svc.EmbedOne(r.Context(), req.Text)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"embedding": vec,
		"dimension": len(vec),
	})
}

type embedBatchRequest struct {
	Texts []string `json:"texts"`
}

// GenerateBatch embeds texts in input order.
func (h *EmbeddingHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req embedBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vecs, err := h.svc.EmbedBatch(r.Context(), req.Texts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"embeddings": vecs,
		"count":      len(vecs),
		"dimension":  dim,
	})
}

type embedDocumentRequest struct {
	DocumentID string         `json:"document_id"`
	UserID     string         `json:"user_id"`
	Chunks     []models.Chunk `json:"chunks"`
}

// ProcessDocument embeds and persists every chunk of a document in one
// transaction.
func (h *EmbeddingHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req embedDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id is required"))
		return
	}

	summary := h.svc.EmbedDocumentChunks(r.Context(), req.DocumentID, req.UserID, req.Chunks)
	if !summary.Success {
		writeJSON(w, http.StatusUnprocessableEntity, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type searchRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
}

// Search ranks a document's stored embeddings against a query.
func (h *EmbeddingHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id is required"))
		return
	}

	results, err := h.svc.Search(r.Context(), req.DocumentID, req.Query, req.TopK)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}
