package ocr

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/harpreet-2146/Prism/internal/core"
)

// OCRSpaceEngine is the fallback recognizer: slower than local tesseract but
// tolerant of images tesseract chokes on. It calls the OCR.space HTTP API.
// The API reports no confidence scores, so Confidences stays empty and the
// service applies its fallback estimate.
type OCRSpaceEngine struct {
	client   *resty.Client
	url      string
	apiKey   string
	language string
}

func NewOCRSpaceEngine(url, apiKey, language string) *OCRSpaceEngine {
	return &OCRSpaceEngine{
		client:   resty.New(),
		url:      url,
		apiKey:   apiKey,
		language: language,
	}
}

func (e *OCRSpaceEngine) Name() string { return "ocrspace" }

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
		ErrorMessage      string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int  `json:"OCRExitCode"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
}

func (e *OCRSpaceEngine) Recognize(ctx context.Context, img []byte) (*core.RecognizeOutput, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("ocrspace: %w: no API key configured", core.ErrBackendUnavailable)
	}

	var out ocrSpaceResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("apikey", e.apiKey).
		SetFileReader("file", "image.jpg", bytes.NewReader(img)).
		SetFormData(map[string]string{
			"language":          e.language,
			"OCREngine":         "2",
			"isOverlayRequired": "false",
			"scale":             "true",
		}).
		SetResult(&out).
		Post(e.url)
	if err != nil {
		return nil, fmt.Errorf("ocrspace request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ocrspace: http %d", resp.StatusCode())
	}
	if out.IsErroredOnProcessing || len(out.ParsedResults) == 0 {
		return nil, fmt.Errorf("ocrspace: processing failed (exit code %d)", out.OCRExitCode)
	}

	var text bytes.Buffer
	for _, pr := range out.ParsedResults {
		if pr.FileParseExitCode != 1 {
			continue
		}
		text.WriteString(pr.ParsedText)
	}
	return &core.RecognizeOutput{Text: text.String()}, nil
}

var _ core.OCREngine = (*OCRSpaceEngine)(nil)
