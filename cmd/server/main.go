// @title CargoScan API
// @version 1.0
// @description Logistics document capture, extraction and export service.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "cargoscan/docs"
	"cargoscan/internal/config"
	"cargoscan/internal/extractor"
	_ "cargoscan/internal/extractor/claude"
	_ "cargoscan/internal/extractor/openai"
	"cargoscan/internal/handler"
	nnoop "cargoscan/internal/notify/noop"
	nses "cargoscan/internal/notify/ses"
	"cargoscan/internal/ocr"
	"cargoscan/internal/port"
	"cargoscan/internal/queue"
	"cargoscan/internal/router"
	"cargoscan/internal/service"
	slocal "cargoscan/internal/storage/local"
	ss3 "cargoscan/internal/storage/s3"
	"cargoscan/internal/store"
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

	docStore, err := store.New(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	queueDB, err := queue.Open(cfg.Queue.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open job queue: %w", err)
	}
	defer queueDB.Close()
	jobStore := queue.NewStore(queueDB)

	// OCR and extraction
	engine := ocr.NewEngine(cfg.OCR)
	fieldExtractor, err := extractor.BuildChain(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	// Artifact storage
	var objStorage port.ObjectStorage
	switch cfg.Storage.Driver {
	case "s3":
		objStorage, err = ss3.NewS3Client(cfg.Storage)
	default:
		objStorage, err = slocal.New(cfg.Storage.LocalDir)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize artifact storage: %w", err)
	}

	// Notifications
	var notifier port.Notifier
	switch cfg.Notify.Provider {
	case "ses":
		notifier, err = nses.NewNotifier(cfg.Notify)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = nnoop.NewNotifier()
	}

	// Services
	exporter := service.NewExportService(objStorage)
	pipeline := service.NewPipeline(docStore, engine, fieldExtractor, exporter)
	docSvc := service.NewDocumentService(docStore)
	jobSvc := service.NewJobService(jobStore, docStore)
	authSvc := service.NewAuthService(cfg.Auth)

	var checker service.ConnectivityChecker
	if cfg.Queue.ConnectivityProbe != "" {
		checker = service.NewDialChecker(cfg.Queue.ConnectivityProbe)
	} else {
		checker = service.NewAlwaysOnlineChecker()
	}

	worker := service.NewScanQueueWorker(jobStore, docStore, engine, fieldExtractor, exporter, notifier, checker, service.ScanQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
		MaxAttempts:  cfg.Queue.MaxAttempts,
		MinBackoff:   time.Duration(cfg.Queue.MinBackoffSecs) * time.Second,
	})

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	captureH := handler.NewCaptureHandler(pipeline)
	docH := handler.NewDocumentHandler(docSvc)
	exportH := handler.NewExportHandler(docSvc, exporter)
	jobH := handler.NewJobHandler(jobSvc)
	healthH := handler.NewHealthHandler(queueDB)

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, captureH, docH, exportH, jobH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}
