package pdf

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/models"
)

// Processor extracts text, word counts and metadata from PDF documents.
type Processor struct {
	engine   core.DocumentEngine
	maxPages int
}

func NewProcessor(engine core.DocumentEngine, maxPages int) *Processor {
	return &Processor{engine: engine, maxPages: maxPages}
}

// ExtractText reads every page of the document and returns the pages in
// order plus a pageNumber -> wordCount map. Fails with ErrPageLimitExceeded
// when the document is over the configured page ceiling.
func (p *Processor) ExtractText(path string) ([]models.Page, map[int]int, error) {
	handle, err := p.engine.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrDocumentUnreadable, err)
	}
	defer handle.Close()

	n := handle.NumPages()
	if n > p.maxPages {
		return nil, nil, fmt.Errorf("%w: document has %d pages, maximum is %d", core.ErrPageLimitExceeded, n, p.maxPages)
	}

	log.Printf("pdf: extracting text from %d pages", n)

	pages := make([]models.Page, 0, n)
	wordCounts := make(map[int]int, n)

	for i := 0; i < n; i++ {
		text, err := handle.PageText(i)
		if err != nil {
			return nil, nil, fmt.Errorf("extract text from page %d: %w", i+1, err)
		}

		width, height, err := handle.PageBounds(i)
		if err != nil {
			return nil, nil, fmt.Errorf("page %d bounds: %w", i+1, err)
		}

		wc := len(strings.Fields(text))
		wordCounts[i+1] = wc

		pages = append(pages, models.Page{
			PageNumber: i + 1,
			Text:       text,
			WordCount:  wc,
			Width:      width,
			Height:     height,
			Category:   DetectCategory(text),
		})
	}

	return pages, wordCounts, nil
}

// WordCounts is the fast path used to drive image-extraction decisions:
// it tokenizes each page without keeping the text or touching page geometry.
func (p *Processor) WordCounts(path string) (map[int]int, error) {
	handle, err := p.engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDocumentUnreadable, err)
	}
	defer handle.Close()

	n := handle.NumPages()
	counts := make(map[int]int, n)
	for i := 0; i < n; i++ {
		text, err := handle.PageText(i)
		if err != nil {
			// A page that cannot be read counts as empty; the image stage
			// will render it.
			log.Printf("pdf: word count for page %d failed: %v", i+1, err)
			counts[i+1] = 0
			continue
		}
		counts[i+1] = len(strings.Fields(text))
	}
	return counts, nil
}

// Metadata reads the document information dictionary plus file size.
func (p *Processor) Metadata(path string) (models.Metadata, error) {
	handle, err := p.engine.Open(path)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("%w: %v", core.ErrDocumentUnreadable, err)
	}
	defer handle.Close()

	md := handle.Metadata()

	var fileSize int64
	if fi, err := os.Stat(path); err == nil {
		fileSize = fi.Size()
	}

	return models.Metadata{
		Title:            md["title"],
		Author:           md["author"],
		Subject:          md["subject"],
		Creator:          md["creator"],
		Producer:         md["producer"],
		CreationDate:     md["creationDate"],
		ModificationDate: md["modDate"],
		PageCount:        handle.NumPages(),
		FileSize:         fileSize,
	}, nil
}
