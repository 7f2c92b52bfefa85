package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	// PDF processing
	PDFMaxPages     int
	PDFDPI          float64
	PDFImageQuality int
	OutputDir       string

	// Image extraction
	TextThreshold int // pages below this word count get a full-page render
	MinImagePx    int // embedded images smaller than this on either side are dropped
	RenderWorkers int

	// OCR
	OCRWorkers            int
	OCRTimeout            time.Duration
	OCRBatchSize          int
	OCRMaxBatch           int
	OCRLanguages          string
	OCRFallbackConfidence float64
	OCRSpaceAPIKey        string
	OCRSpaceURL           string

	// Embeddings
	AIAPIKey      string
	EmbedModel    string
	EmbedBatch    int
	EmbedMaxBatch int

	// Object storage
	StorageBackend string // "local" or "s3"
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8000"),
		JWTSecret:   getEnv("SERVICE_JWT_SECRET", ""),

		PDFMaxPages:     getEnvInt("PDF_MAX_PAGES", 1500),
		PDFDPI:          getEnvFloat("PDF_DPI", 100),
		PDFImageQuality: getEnvInt("PDF_IMAGE_QUALITY", 85),
		OutputDir:       getEnv("OUTPUT_DIR", "./data/outputs"),

		TextThreshold: getEnvInt("TEXT_THRESHOLD", 50),
		MinImagePx:    getEnvInt("MIN_IMAGE_PX", 100),
		RenderWorkers: getEnvInt("RENDER_WORKERS", 8),

		OCRWorkers:            getEnvInt("OCR_WORKERS", 4),
		OCRTimeout:            getEnvDuration("OCR_TIMEOUT", 30*time.Second),
		OCRBatchSize:          getEnvInt("OCR_BATCH_SIZE", 20),
		OCRMaxBatch:           getEnvInt("OCR_MAX_BATCH", 50),
		OCRLanguages:          getEnv("OCR_LANGUAGES", "eng"),
		OCRFallbackConfidence: getEnvFloat("OCR_FALLBACK_CONFIDENCE", 75),
		OCRSpaceAPIKey:        getEnv("OCR_SPACE_API_KEY", ""),
		OCRSpaceURL:           getEnv("OCR_SPACE_URL", "https://api.ocr.space/parse/image"),

		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedBatch:    getEnvInt("EMBEDDING_BATCH_SIZE", 128),
		EmbedMaxBatch: getEnvInt("EMBEDDING_MAX_BATCH", 500),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", "prism-images"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("WARN: %s=%q not a number, using default %v", key, v, def)
		return def
	}
	return f
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	// Accept plain seconds ("30") as well as Go durations ("30s").
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %v", key, v, def)
		return def
	}
	return d
}
