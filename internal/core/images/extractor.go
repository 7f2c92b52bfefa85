package images

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"sort"
	"sync"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/sync/errgroup"

	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/models"
)

// Options tunes the extractor.
//
// TextThreshold: pages with fewer words get a full-page render for OCR.
// MinImagePx:    embedded images below this on either side are dropped (logos, icons).
// DPI:           render resolution for page images.
// Quality:       JPEG quality for everything the extractor writes.
// RenderWorkers: bound on concurrent page renders.
type Options struct {
	TextThreshold int
	MinImagePx    int
	DPI           float64
	Quality       int
	RenderWorkers int
}

func DefaultOptions() Options {
	return Options{
		TextThreshold: 50,
		MinImagePx:    100,
		DPI:           100,
		Quality:       85,
		RenderWorkers: 8,
	}
}

// Extractor pulls images out of a document: full renders of low-text pages
// plus embedded rasters, deduplicated by content hash.
type Extractor struct {
	engine core.DocumentEngine
	source core.EmbeddedImageSource
	store  core.ImageStore
	opts   Options
}

func NewExtractor(engine core.DocumentEngine, source core.EmbeddedImageSource, store core.ImageStore, opts Options) *Extractor {
	if opts.RenderWorkers < 1 {
		opts.RenderWorkers = 1
	}
	return &Extractor{engine: engine, source: source, store: store, opts: opts}
}

// ExtractAll produces the ordered image descriptors for one document: page
// renders sorted by page number, then embedded images. Descriptors carry no
// ids; the caller persists them as one batch and receives ids aligned with
// this order. Individual page or image failures are logged and omitted; an
// empty result is valid.
func (e *Extractor) ExtractAll(ctx context.Context, path, documentID string, wordCounts map[int]int) ([]models.DocumentImage, error) {
	renders, err := e.renderLowTextPages(ctx, path, documentID, wordCounts)
	if err != nil {
		return nil, err
	}

	embedded := e.extractEmbedded(ctx, path, documentID)

	log.Printf("images: extracted %d total (%d page renders, %d embedded) for document %s",
		len(renders)+len(embedded), len(renders), len(embedded), documentID)

	return append(renders, embedded...), nil
}

// renderLowTextPages renders every page under the word-count threshold.
// Renders run concurrently up to RenderWorkers wide; each worker opens its
// own document handle because the engine does not guarantee thread safety
// across one handle. Completion order never leaks: results are re-sorted by
// page number before being returned.
func (e *Extractor) renderLowTextPages(ctx context.Context, path, documentID string, wordCounts map[int]int) ([]models.DocumentImage, error) {
	var pageNums []int
	for pageNum, wc := range wordCounts {
		if wc < e.opts.TextThreshold {
			pageNums = append(pageNums, pageNum)
		}
	}
	if len(pageNums) == 0 {
		return nil, nil
	}
	sort.Ints(pageNums)

	var (
		mu      sync.Mutex
		results []models.DocumentImage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.RenderWorkers)

	for _, pageNum := range pageNums {
		g.Go(func() error {
			desc, err := e.renderPage(gctx, path, documentID, pageNum)
			if err != nil {
				// One bad page never aborts the batch.
				log.Printf("images: render page %d failed: %v", pageNum, err)
				return nil
			}
			mu.Lock()
			results = append(results, *desc)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].PageNumber < results[j].PageNumber })
	return results, nil
}

func (e *Extractor) renderPage(ctx context.Context, path, documentID string, pageNum int) (*models.DocumentImage, error) {
	handle, err := e.engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open handle: %w", err)
	}
	defer handle.Close()

	img, err := handle.RenderPage(pageNum-1, e.opts.DPI)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	data, err := e.encodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	key := fmt.Sprintf("%s_p%d_full.jpg", documentID, pageNum)
	ref, err := e.store.Save(ctx, key, data, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	bounds := img.Bounds()
	return &models.DocumentImage{
		DocumentID:  documentID,
		PageNumber:  pageNum,
		ImageIndex:  0, // index 0 is reserved for full-page renders
		StoragePath: ref,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Format:      "jpg",
		FileSize:    int64(len(data)),
		Kind:        models.ImageKindPageRender,
		OCRStatus:   models.OCRStatusPending,
	}, nil
}

// extractEmbedded scans for embedded rasters, skipping duplicates by content
// hash across the whole run and anything below the pixel floor. Runs
// single-threaded. A source failure yields an empty set, not an error.
func (e *Extractor) extractEmbedded(ctx context.Context, path, documentID string) []models.DocumentImage {
	found, err := e.source.ExtractImages(path)
	if err != nil {
		log.Printf("images: embedded image scan failed: %v", err)
		return nil
	}

	seen := make(map[string]bool)
	perPageIndex := make(map[int]int)

	var out []models.DocumentImage
	for _, emb := range found {
		perPageIndex[emb.PageNumber]++
		index := perPageIndex[emb.PageNumber]

		hash := md5.Sum(emb.Data)
		digest := hex.EncodeToString(hash[:])
		if seen[digest] {
			continue
		}
		seen[digest] = true

		img, _, err := image.Decode(bytes.NewReader(emb.Data))
		if err != nil {
			log.Printf("images: decode embedded image p%d #%d failed: %v", emb.PageNumber, index, err)
			continue
		}

		bounds := img.Bounds()
		width, height := bounds.Dx(), bounds.Dy()
		if width < e.opts.MinImagePx || height < e.opts.MinImagePx {
			continue
		}

		data, err := e.encodeJPEG(img)
		if err != nil {
			log.Printf("images: encode embedded image p%d #%d failed: %v", emb.PageNumber, index, err)
			continue
		}

		key := fmt.Sprintf("%s_p%d_img%d.jpg", documentID, emb.PageNumber, index)
		ref, err := e.store.Save(ctx, key, data, "image/jpeg")
		if err != nil {
			log.Printf("images: store embedded image p%d #%d failed: %v", emb.PageNumber, index, err)
			continue
		}

		out = append(out, models.DocumentImage{
			DocumentID:  documentID,
			PageNumber:  emb.PageNumber,
			ImageIndex:  index,
			StoragePath: ref,
			Width:       width,
			Height:      height,
			Format:      "jpg",
			FileSize:    int64(len(data)),
			Kind:        models.ImageKindEmbedded,
			OCRStatus:   models.OCRStatusPending,
		})
	}
	return out
}

// encodeJPEG normalizes any decoded color mode to JPEG at the configured
// quality.
func (e *Extractor) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.opts.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
