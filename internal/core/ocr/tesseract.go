package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/harpreet-2146/Prism/internal/core"
)

// TesseractEngine is the fast, locally-run primary recognizer. A fresh
// gosseract client is created per call: clients are not safe for concurrent
// use, and the batch runs many recognitions in parallel.
type TesseractEngine struct {
	languages []string
}

func NewTesseractEngine(languages string) *TesseractEngine {
	langs := strings.Split(languages, ",")
	for i := range langs {
		langs[i] = strings.TrimSpace(langs[i])
	}
	return &TesseractEngine{languages: langs}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, img []byte) (*core.RecognizeOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("tesseract set language: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("tesseract set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract recognize: %w", err)
	}

	out := &core.RecognizeOutput{Text: text}

	// Word-level confidences, already on a 0-100 scale.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil {
		for _, b := range boxes {
			out.Confidences = append(out.Confidences, b.Confidence)
		}
	}
	return out, nil
}

var _ core.OCREngine = (*TesseractEngine)(nil)
