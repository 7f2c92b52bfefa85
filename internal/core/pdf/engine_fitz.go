package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/harpreet-2146/Prism/internal/core"
)

// FitzEngine opens PDF documents through MuPDF. A handle is cheap to open,
// so concurrent renderers open one handle each instead of sharing.
type FitzEngine struct{}

func NewFitzEngine() *FitzEngine {
	return &FitzEngine{}
}

func (e *FitzEngine) Open(path string) (core.DocumentHandle, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &fitzHandle{doc: doc}, nil
}

type fitzHandle struct {
	doc *fitz.Document
}

func (h *fitzHandle) NumPages() int {
	return h.doc.NumPage()
}

func (h *fitzHandle) PageText(n int) (string, error) {
	return h.doc.Text(n)
}

func (h *fitzHandle) PageBounds(n int) (float64, float64, error) {
	b, err := h.doc.Bound(n)
	if err != nil {
		return 0, 0, err
	}
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (h *fitzHandle) RenderPage(n int, dpi float64) (image.Image, error) {
	return h.doc.ImageDPI(n, dpi)
}

func (h *fitzHandle) Metadata() map[string]string {
	return h.doc.Metadata()
}

func (h *fitzHandle) Close() error {
	return h.doc.Close()
}

var _ core.DocumentEngine = (*FitzEngine)(nil)
