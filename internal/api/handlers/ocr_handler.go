package handlers

import (
	"fmt"
	"net/http"

	"github.com/harpreet-2146/Prism/internal/core/ocr"
	"github.com/harpreet-2146/Prism/internal/services"
)

type OcrHandler struct {
	svc *services.ProcessingService
}

func NewOcrHandler(svc *services.ProcessingService) *OcrHandler {
	return &OcrHandler{svc: svc}
}

type ocrImageRequest struct {
	ImageID   string `json:"image_id"`
	ImagePath string `json:"image_path"`
}

// ProcessImage recognizes a single stored image.
func (h *OcrHandler) ProcessImage(w http.ResponseWriter, r *http.Request) {
	var req ocrImageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ImagePath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image_path is required"))
		return
	}

	result := h.svc.RunOCRImage(r.Context(), req.ImageID, req.ImagePath)
	writeJSON(w, http.StatusOK, result)
}

type ocrBatchRequest struct {
	Images []ocr.ImageRef `json:"images"`
}

// ProcessBatch recognizes a batch of stored images concurrently. Results are
// returned in completion order; clients match them by image id.
func (h *OcrHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req ocrBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	results, err := h.svc.RunOCRBatch(r.Context(), req.Images)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

type ocrDocumentRequest struct {
	DocumentID string `json:"document_id"`
}

// ProcessDocument recognizes every pending image of a document.
func (h *OcrHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req ocrDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("document_id is required"))
		return
	}

	summary := h.svc.RunOCRForDocument(r.Context(), req.DocumentID)
	if !summary.Success {
		writeJSON(w, http.StatusUnprocessableEntity, summary)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
