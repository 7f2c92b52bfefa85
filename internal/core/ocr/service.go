package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/harpreet-2146/Prism/internal/core"
	"github.com/harpreet-2146/Prism/internal/models"
)

// ImageRef identifies one image to recognize.
type ImageRef struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Options tunes the OCR service.
//
// Workers is the width of the batch worker pool. Timeout is the per-image
// ceiling; exceeding it fails that image only. BatchSize is the
// document-level sub-batch size; results are persisted after each sub-batch
// so a crash loses at most one. FallbackConfidence is assigned when the
// producing engine reports none and the text is non-empty.
type Options struct {
	Workers            int
	Timeout            time.Duration
	BatchSize          int
	FallbackConfidence float64
}

func DefaultOptions() Options {
	return Options{
		Workers:            4,
		Timeout:            30 * time.Second,
		BatchSize:          20,
		FallbackConfidence: 75,
	}
}

// Service runs text recognition with an ordered engine chain: each engine is
// tried at most once and the first success short-circuits.
type Service struct {
	engines []core.OCREngine
	store   core.ImageStore
	db      core.DbClient
	opts    Options
}

func NewService(engines []core.OCREngine, store core.ImageStore, db core.DbClient, opts Options) *Service {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	return &Service{engines: engines, store: store, db: db, opts: opts}
}

// ProcessImage recognizes one image. Failures come back as a failed-status
// result, never as an error.
func (s *Service) ProcessImage(ctx context.Context, imageID, ref string) models.OCRResult {
	start := time.Now()

	result := models.OCRResult{
		ImageID:   imageID,
		ImagePath: ref,
		Status:    models.OCRStatusFailed,
	}

	data, err := s.store.Get(ctx, ref)
	if err != nil {
		result.Error = fmt.Sprintf("load image: %v", err)
		result.Duration = time.Since(start).Seconds()
		return result
	}

	type attempt struct {
		out    *core.RecognizeOutput
		engine string
		err    error
	}
	done := make(chan attempt, 1)

	tctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	go func() {
		var lastErr error
		var lastEngine string
		for _, engine := range s.engines {
			out, err := engine.Recognize(tctx, data)
			if err == nil {
				done <- attempt{out: out, engine: engine.Name()}
				return
			}
			log.Printf("ocr: engine %s failed for %s: %v", engine.Name(), imageID, err)
			lastErr = err
			lastEngine = engine.Name()
		}
		done <- attempt{err: lastErr, engine: lastEngine}
	}()

	select {
	case <-tctx.Done():
		// The in-flight engine call is abandoned, not cancelled; sibling
		// batch items are unaffected.
		result.Error = fmt.Sprintf("timed out after %s", s.opts.Timeout)
		result.Duration = time.Since(start).Seconds()
		return result
	case a := <-done:
		result.Duration = time.Since(start).Seconds()
		result.Engine = a.engine
		if a.err != nil {
			result.Error = a.err.Error()
			return result
		}

		text := cleanText(a.out.Text)
		result.Text = text
		result.WordCount = len(strings.Fields(text))
		result.Confidence = s.confidence(text, a.out.Confidences)
		result.Status = models.OCRStatusCompleted
		return result
	}
}

// ProcessBatch recognizes a batch concurrently on a bounded worker pool.
// Results arrive in completion order; callers match by ImageID, never by
// position. A failure or timeout on one image does not cancel siblings.
func (s *Service) ProcessBatch(ctx context.Context, items []ImageRef) []models.OCRResult {
	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	log.Printf("ocr: starting batch of %d images on %d workers", len(items), s.opts.Workers)

	pool, err := ants.NewPool(s.opts.Workers)
	if err != nil {
		// Pool construction only fails on invalid size; fall back to one
		// worker inline.
		out := make([]models.OCRResult, 0, len(items))
		for _, item := range items {
			out = append(out, s.ProcessImage(ctx, item.ID, item.Path))
		}
		return out
	}
	defer pool.Release()

	var wg sync.WaitGroup
	resultCh := make(chan models.OCRResult, len(items))

	for _, item := range items {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			resultCh <- s.ProcessImage(ctx, item.ID, item.Path)
		})
		if submitErr != nil {
			wg.Done()
			resultCh <- models.OCRResult{
				ImageID:   item.ID,
				ImagePath: item.Path,
				Status:    models.OCRStatusFailed,
				Error:     submitErr.Error(),
			}
		}
	}

	wg.Wait()
	close(resultCh)

	results := make([]models.OCRResult, 0, len(items))
	for r := range resultCh {
		results = append(results, r)
	}

	successful := 0
	for _, r := range results {
		if r.Status == models.OCRStatusCompleted {
			successful++
		}
	}
	log.Printf("ocr: batch complete, %d/%d successful in %.2fs", successful, len(items), time.Since(start).Seconds())

	return results
}

// ProcessDocument runs OCR over every pending image of a document, in
// (page_number, image_index) order, persisting after each sub-batch.
func (s *Service) ProcessDocument(ctx context.Context, documentID string) models.OCRSummary {
	start := time.Now()
	summary := models.OCRSummary{DocumentID: documentID}

	pending, err := s.db.PendingOCRImages(ctx, documentID)
	if err != nil {
		summary.Error = fmt.Sprintf("fetch pending images: %v", err)
		return summary
	}
	if len(pending) == 0 {
		summary.Success = true
		return summary
	}

	log.Printf("ocr: processing %d pending images for document %s", len(pending), documentID)

	items := make([]ImageRef, len(pending))
	for i, img := range pending {
		items[i] = ImageRef{ID: img.ID, Path: img.StoragePath}
	}

	var all []models.OCRResult
	for i := 0; i < len(items); i += s.opts.BatchSize {
		end := i + s.opts.BatchSize
		if end > len(items) {
			end = len(items)
		}

		batch := s.ProcessBatch(ctx, items[i:end])

		// Persist before starting the next sub-batch: a crash mid-document
		// loses at most one sub-batch of results.
		if err := s.db.UpdateImageOCRBatch(ctx, batch); err != nil {
			summary.Error = fmt.Sprintf("persist OCR results: %v", err)
			summary.Processed = len(all)
			return summary
		}
		all = append(all, batch...)
	}

	var confSum float64
	for _, r := range all {
		if r.Status == models.OCRStatusCompleted {
			summary.Successful++
			confSum += r.Confidence
		} else {
			summary.Failed++
		}
		summary.TotalWords += r.WordCount
	}
	summary.Processed = len(all)
	if summary.Successful > 0 {
		summary.AvgConfidence = confSum / float64(summary.Successful)
	}
	summary.Duration = time.Since(start).Seconds()
	summary.Success = true

	log.Printf("ocr: document %s complete, %d/%d successful, %d words, %.2fs",
		documentID, summary.Successful, summary.Processed, summary.TotalWords, summary.Duration)

	return summary
}

// confidence averages engine-reported token confidences (0-100). When the
// engine reports none, non-empty text gets the configured fallback estimate
// and empty text gets 0.
func (s *Service) confidence(text string, scores []float64) float64 {
	if len(scores) == 0 {
		if text == "" {
			return 0
		}
		return s.opts.FallbackConfidence
	}
	var sum float64
	for _, c := range scores {
		sum += c
	}
	return sum / float64(len(scores))
}

func cleanText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
