// Command scan runs one image through the capture pipeline from the
// terminal: OCR, classification, extraction, persistence and export.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/extractor"
	_ "cargoscan/internal/extractor/claude"
	_ "cargoscan/internal/extractor/openai"
	"cargoscan/internal/ocr"
	"cargoscan/internal/service"
	slocal "cargoscan/internal/storage/local"
	"cargoscan/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		imagePath = flag.String("image", "", "path to the document photo (required)")
		docType   = flag.String("type", "", "document type override: invoice, delivery_note or warehouse_label")
		outDir    = flag.String("out", "", "directory for export artifacts (defaults to configured storage)")
		detect    = flag.Bool("detect-only", false, "stop after OCR and classification, print the detected type")
	)
	flag.Parse()

	if *imagePath == "" {
		flag.Usage()
		return fmt.Errorf("the -image flag is required")
	}
	if _, err := os.Stat(*imagePath); err != nil {
		return fmt.Errorf("image %s: %w", *imagePath, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *outDir != "" {
		cfg.Storage.LocalDir = *outDir
	}

	docStore, err := store.New(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}

	engine := ocr.NewEngine(cfg.OCR)
	fieldExtractor, err := extractor.BuildChain(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	objStorage, err := slocal.New(cfg.Storage.LocalDir)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact storage: %w", err)
	}
	exporter := service.NewExportService(objStorage)

	pipeline := service.NewPipeline(docStore, engine, fieldExtractor, exporter)

	ctx := context.Background()
	state, err := pipeline.ProcessImage(ctx, *imagePath)
	if err != nil {
		return fmt.Errorf("%s: %w", state.Message, err)
	}

	if *detect {
		fmt.Printf("detected type: %s\n", state.DocumentType)
		return nil
	}

	var override domain.DocumentType
	if *docType != "" {
		override = domain.ParseDocumentType(*docType)
	}

	state, err = pipeline.ProcessDocument(ctx, override)
	if err != nil {
		return fmt.Errorf("%s: %w", state.Message, err)
	}

	out, err := json.MarshalIndent(state.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))

	if _, err := exporter.PublishJSON(ctx, state.Document, ""); err != nil {
		log.Printf("scan: json publish failed: %v", err)
	}
	if _, err := exporter.PublishQR(ctx, state.Document, ""); err != nil {
		log.Printf("scan: qr publish failed: %v", err)
	}

	return nil
}
