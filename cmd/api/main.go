package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lungscan-backend/cmd"
	"lungscan-backend/internal/api"
	"lungscan-backend/internal/core"
	"lungscan-backend/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	APIPort           string        `env:"API_PORT" envDefault:"8000"`
	ModelDir          string        `env:"MODEL_DIR" envDefault:"./models"`
	ModelS3URI        string        `env:"MODEL_S3_URI"`
	S3EndpointURL     string        `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string        `env:"AWS_REGION" envDefault:"us-east-1"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	InferenceTimeout  time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"30s"`
	ModelPoolSize     int           `env:"MODEL_POOL_SIZE" envDefault:"1"`
	CORSOrigins       []string      `env:"CORS_ORIGINS" envDefault:"*"`
}

func main() {
	log.Println("Starting diagnosis API server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	modelDir := cfg.ModelDir
	if cfg.ModelS3URI != "" {
		dir, err := fetchModelArtifacts(cfg)
		if err != nil {
			log.Fatalf("Failed to fetch model artifacts: %v", err)
		}
		modelDir = dir
	}

	// The invoker records a load failure instead of aborting: the server
	// still starts so /health can report the degraded state.
	loaders := core.NewModelLoaders(cfg.ModelPoolSize)
	invoker := core.NewInvoker(loaders[core.OnnxCnn], modelDir, cfg.InferenceTimeout)
	defer invoker.Release()

	pipeline := core.NewPipeline(core.NewValidator(cfg.MaxUploadBytes), invoker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	service := api.NewDiagnosisService(pipeline, cfg.MaxUploadBytes)
	service.AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

// fetchModelArtifacts downloads the model directory referenced by
// MODEL_S3_URI into a temporary directory and returns its path.
func fetchModelArtifacts(cfg APIConfig) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider, err := storage.NewS3Provider(ctx, storage.S3Config{
		EndpointURL:     cfg.S3EndpointURL,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
	})
	if err != nil {
		return "", err
	}

	bucket, prefix, err := storage.ParseS3URI(cfg.ModelS3URI)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "lungscan-model-")
	if err != nil {
		return "", err
	}

	if err := storage.DownloadDir(ctx, provider, bucket, prefix, dir); err != nil {
		return "", err
	}

	log.Printf("model artifacts downloaded from %s to %s", cfg.ModelS3URI, dir)
	return dir, nil
}
