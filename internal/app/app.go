package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harpreet-2146/Prism/internal/config"
	"github.com/harpreet-2146/Prism/internal/core"
	db "github.com/harpreet-2146/Prism/internal/core/database"
	"github.com/harpreet-2146/Prism/internal/core/embedding"
	"github.com/harpreet-2146/Prism/internal/core/images"
	"github.com/harpreet-2146/Prism/internal/core/llm"
	objectclient "github.com/harpreet-2146/Prism/internal/core/object-client"
	"github.com/harpreet-2146/Prism/internal/core/ocr"
	"github.com/harpreet-2146/Prism/internal/core/pdf"
	"github.com/harpreet-2146/Prism/internal/services"
)

type App struct {
	DBClient core.DbClient
	Store    core.ImageStore
	Embedder *llm.GeminiEmbedder
	Service  *services.ProcessingService
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	store, err := newImageStore(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Image store initialized (%s backend).", cfg.StorageBackend)

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	engine := pdf.NewFitzEngine()
	processor := pdf.NewProcessor(engine, cfg.PDFMaxPages)

	extractor := images.NewExtractor(engine, images.NewPdfcpuSource(), store, images.Options{
		TextThreshold: cfg.TextThreshold,
		MinImagePx:    cfg.MinImagePx,
		DPI:           cfg.PDFDPI,
		Quality:       cfg.PDFImageQuality,
		RenderWorkers: cfg.RenderWorkers,
	})

	ocrSvc := ocr.NewService(ocrEngines(cfg), store, dbClient, ocr.Options{
		Workers:            cfg.OCRWorkers,
		Timeout:            cfg.OCRTimeout,
		BatchSize:          cfg.OCRBatchSize,
		FallbackConfidence: cfg.OCRFallbackConfidence,
	})

	embedder := embedding.NewGenerator(geminiEmbedder, dbClient, cfg.EmbedBatch)

	limits := services.DefaultLimits()
	limits.OCRMaxBatch = cfg.OCRMaxBatch
	limits.EmbedMaxBatch = cfg.EmbedMaxBatch

	svc := services.NewProcessingService(dbClient, processor, extractor, ocrSvc, embedder, limits)

	server := NewServer(cfg, svc, engineNames(cfg))

	return &App{
		DBClient: dbClient,
		Store:    store,
		Embedder: geminiEmbedder,
		Service:  svc,
		Server:   server,
	}, nil
}

func newImageStore(ctx context.Context, cfg *config.Config) (core.ImageStore, error) {
	if cfg.StorageBackend == "s3" {
		return objectclient.NewS3Store(ctx, cfg)
	}
	return objectclient.NewLocalStore(cfg.OutputDir)
}

func ocrEngines(cfg *config.Config) []core.OCREngine {
	engines := []core.OCREngine{ocr.NewTesseractEngine(cfg.OCRLanguages)}
	if cfg.OCRSpaceAPIKey != "" {
		engines = append(engines, ocr.NewOCRSpaceEngine(cfg.OCRSpaceURL, cfg.OCRSpaceAPIKey, cfg.OCRLanguages))
	}
	return engines
}

func engineNames(cfg *config.Config) []string {
	names := make([]string, 0, 2)
	for _, e := range ocrEngines(cfg) {
		names = append(names, e.Name())
	}
	return names
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
