package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"resumeparse/internal/config"
	"resumeparse/internal/extract"
	"resumeparse/internal/handler"
	"resumeparse/internal/port"
	"resumeparse/internal/repository/postgres"
	"resumeparse/internal/resume"
	"resumeparse/internal/router"
	"resumeparse/internal/service"
	s3storage "resumeparse/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(&cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	reviewRepo := postgres.NewReviewRepo(db)
	snapshotRepo := postgres.NewSnapshotRepo(db)

	// Initialize storage; archiving of originals is optional
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Printf("S3 archiving disabled; original documents will not be stored")
	}

	// Initialize parsing pipeline and services
	pipeline := resume.NewPipeline(extract.NewExtractor(extract.Config{MinTextChars: cfg.Extract.MinTextChars}))
	reviewSvc := service.NewReviewService(pipeline, reviewRepo, snapshotRepo, storage, &cfg.S3, &cfg.Extract, &cfg.Review)

	reaper := service.NewSessionReaper(reviewSvc, service.SessionReaperConfig{
		Interval: cfg.Review.ReapInterval,
		IdleTTL:  cfg.Review.IdleTTL,
	})
	reaperDone := make(chan struct{})
	go func() {
		reaper.Start(ctx)
		close(reaperDone)
	}()

	// Initialize handlers
	reviewH := handler.NewReviewHandler(reviewSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(reviewH, healthH, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	// The reaper flushes pending auto-saves on exit, even when periodic
	// eviction is disabled, so this must happen before the database closes.
	stop()
	<-reaperDone
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown: %w", shutdownErr)
	}
	return nil
}

// setupLogging routes the standard logger through slog so every log.Printf
// line is emitted in the configured format.
func setupLogging(cfg *config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
