package port

import (
	"context"

	"cargoscan/internal/domain"
)

// TextRecognizer abstracts the on-device OCR engine.
type TextRecognizer interface {
	// ExtractText returns the recognized text. An empty string on an
	// unreadable image is a legitimate result, not an error.
	ExtractText(ctx context.Context, imagePath string) (string, error)
	// ExtractStructuredText returns best-effort key/value pairs sniffed
	// from the recognized text. Failures are non-fatal to callers.
	ExtractStructuredText(ctx context.Context, imagePath string) (map[string]string, error)
	// PreprocessImage writes an OCR-enhanced copy of the image and
	// returns its path. Callers fall back to the original on error.
	PreprocessImage(ctx context.Context, imagePath string) (string, error)
	// DetectDocumentType classifies text by keyword heuristics, returning
	// domain.TypeUnknown when nothing matches.
	DetectDocumentType(text string) domain.DocumentType
}
