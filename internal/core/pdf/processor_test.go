package pdf

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harpreet-2146/Prism/internal/core"
)

// fakeEngine serves canned page text without touching a real PDF.
type fakeEngine struct {
	pages   []string
	openErr error
}

func (e *fakeEngine) Open(path string) (core.DocumentHandle, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return &fakeHandle{pages: e.pages}, nil
}

type fakeHandle struct {
	pages []string
}

func (h *fakeHandle) NumPages() int { return len(h.pages) }

func (h *fakeHandle) PageText(n int) (string, error) { return h.pages[n], nil }

func (h *fakeHandle) PageBounds(n int) (float64, float64, error) { return 612, 792, nil }

func (h *fakeHandle) RenderPage(n int, dpi float64) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (h *fakeHandle) Metadata() map[string]string {
	return map[string]string{"title": "t", "author": "a"}
}

func (h *fakeHandle) Close() error { return nil }

func TestProcessor_ExtractText(t *testing.T) {
	engine := &fakeEngine{pages: []string{
		"hello world from the first page",
		"sales order delivery billing",
		"",
	}}
	p := NewProcessor(engine, 1500)

	pages, counts, err := p.ExtractText("test.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 6, pages[0].WordCount)
	assert.Equal(t, CategoryUnknown, pages[0].Category)
	assert.Equal(t, "SD", pages[1].Category)
	assert.Equal(t, 0, pages[2].WordCount)

	assert.Equal(t, map[int]int{1: 6, 2: 4, 3: 0}, counts)
	assert.Equal(t, 612.0, pages[0].Width)
	assert.Equal(t, 792.0, pages[0].Height)
}

func TestProcessor_PageLimit(t *testing.T) {
	pages := make([]string, 5)
	p := NewProcessor(&fakeEngine{pages: pages}, 3)

	_, _, err := p.ExtractText("big.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPageLimitExceeded))
}

func TestProcessor_Unreadable(t *testing.T) {
	p := NewProcessor(&fakeEngine{openErr: fmt.Errorf("corrupt header")}, 1500)

	_, _, err := p.ExtractText("broken.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDocumentUnreadable))

	_, err = p.WordCounts("broken.pdf")
	assert.True(t, errors.Is(err, core.ErrDocumentUnreadable))
}

func TestProcessor_WordCounts(t *testing.T) {
	engine := &fakeEngine{pages: []string{"one two three", "", "a b"}}
	p := NewProcessor(engine, 1500)

	counts, err := p.WordCounts("test.pdf")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 3, 2: 0, 3: 2}, counts)
}

func TestDetectCategory(t *testing.T) {
	assert.Equal(t, "MM", DetectCategory("Procurement process overview"))
	assert.Equal(t, "FI", DetectCategory("GENERAL LEDGER posting"))
	assert.Equal(t, "WM", DetectCategory("warehouse management basics"))
	assert.Equal(t, CategoryUnknown, DetectCategory("nothing relevant at all"))
	assert.Equal(t, CategoryUnknown, DetectCategory(""))

	// First matching category wins when keywords overlap.
	assert.Equal(t, "PP", DetectCategory("work order scheduling"))
}
