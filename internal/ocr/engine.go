// Package ocr wraps the tesseract binary behind the TextRecognizer
// contract and adds the text heuristics layered on top of it: structured
// key/value sniffing and document-type detection.
package ocr

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// Engine shells out to tesseract for recognition.
type Engine struct {
	cfg    config.OCRConfig
	runner Runner
}

var _ port.TextRecognizer = (*Engine)(nil)

// NewEngine creates an Engine that executes the configured tesseract
// binary.
func NewEngine(cfg config.OCRConfig) *Engine {
	return NewEngineWithRunner(cfg, execRunner{})
}

// NewEngineWithRunner creates an Engine with a custom Runner (for testing).
func NewEngineWithRunner(cfg config.OCRConfig, runner Runner) *Engine {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{cfg: cfg, runner: runner}
}

// ExtractText runs tesseract over the image and normalizes the output.
// An empty result is not an error; callers decide what blank text means.
func (e *Engine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, strings.TrimSpace(string(errb)))
	}
	return Normalize(string(out)), nil
}

// ExtractStructuredText OCRs the image and sniffs "key: value" pairs out
// of the text. Best effort only.
func (e *Engine) ExtractStructuredText(ctx context.Context, imagePath string) (map[string]string, error) {
	text, err := e.ExtractText(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	return ParseKeyValues(text), nil
}

// DetectDocumentType delegates to the pure keyword classifier.
func (e *Engine) DetectDocumentType(text string) domain.DocumentType {
	return DetectDocumentType(text)
}

var (
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
	reSpaceRuns = regexp.MustCompile(`[ \t]{2,}`)
)

// Normalize collapses OCR whitespace noise without disturbing line
// structure, which the key/value sniffer depends on.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
