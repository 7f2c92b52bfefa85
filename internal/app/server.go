package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/harpreet-2146/Prism/internal/api/handlers"
	appMiddleware "github.com/harpreet-2146/Prism/internal/api/middlewares"
	"github.com/harpreet-2146/Prism/internal/config"
	"github.com/harpreet-2146/Prism/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, svc *services.ProcessingService, ocrEngines []string) *Server {
	pdfHandler := handlers.NewPdfHandler(svc)
	ocrHandler := handlers.NewOcrHandler(svc)
	embedHandler := handlers.NewEmbeddingHandler(svc)
	healthHandler := handlers.NewHealthHandler(cfg.StorageBackend, ocrEngines)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Document-scale OCR and embedding runs take a while.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/health", healthHandler.Health)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			if cfg.JWTSecret != "" {
				protected.Use(appMiddleware.ServiceAuth(cfg.JWTSecret))
			}

			protected.Post("/documents", pdfHandler.CreateDocument)
			protected.Get("/documents/{id}", pdfHandler.GetDocument)

			protected.Post("/pdf/process", pdfHandler.ProcessDocument)
			protected.Post("/pdf/metadata", pdfHandler.GetMetadata)
			protected.Post("/images/extract", pdfHandler.ExtractImages)

			protected.Post("/ocr/process", ocrHandler.ProcessImage)
			protected.Post("/ocr/process-batch", ocrHandler.ProcessBatch)
			protected.Post("/ocr/process-document", ocrHandler.ProcessDocument)

			protected.Post("/embeddings/generate", embedHandler.Generate)
			protected.Post("/embeddings/generate-batch", embedHandler.GenerateBatch)
			protected.Post("/embeddings/process-document", embedHandler.ProcessDocument)
			protected.Post("/embeddings/search", embedHandler.Search)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
