package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harpreet-2146/Prism/internal/services"
)

type PdfHandler struct {
	svc *services.ProcessingService
}

func NewPdfHandler(svc *services.ProcessingService) *PdfHandler {
	return &PdfHandler{svc: svc}
}

type processRequest struct {
	DocumentID string `json:"document_id"`
	FilePath   string `json:"file_path"`
}

// ProcessDocument runs the text extraction stage for one document.
func (h *PdfHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocumentID == "" || req.FilePath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id and file_path are required"))
		return
	}

	result := h.svc.ProcessDocument(r.Context(), req.DocumentID, req.FilePath)
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type metadataRequest struct {
	FilePath string `json:"file_path"`
}

// GetMetadata reads document information without changing document state.
func (h *PdfHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file_path is required"))
		return
	}

	md, err := h.svc.Metadata(req.FilePath)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// ExtractImages pulls page renders and embedded images out of a document.
func (h *PdfHandler) ExtractImages(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocumentID == "" || req.FilePath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id and file_path are required"))
		return
	}

	imgs, err := h.svc.ExtractImages(r.Context(), req.DocumentID, req.FilePath)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": req.DocumentID,
		"images":      imgs,
		"count":       len(imgs),
	})
}

type createDocumentRequest struct {
	UserID      string `json:"user_id"`
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
}

// CreateDocument registers a document row ahead of processing.
func (h *PdfHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" || req.StoragePath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file_name and storage_path are required"))
		return
	}

	doc, err := h.svc.CreateDocument(r.Context(), req.UserID, req.FileName, req.StoragePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// GetDocument returns one document row with its processing state.
func (h *PdfHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("document %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
