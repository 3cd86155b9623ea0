package port

import (
	"context"

	"cargoscan/internal/domain"
)

// ExtractInput carries the data needed for structured-field extraction.
type ExtractInput struct {
	Text         string
	DocumentType domain.DocumentType
	ImagePath    string
}

// ExtractOutput contains the classified document built from the model
// response plus audit metadata.
type ExtractOutput struct {
	Document   *domain.Document
	ModelUsed  string
	PromptUsed string
}

// FieldExtractor abstracts the cloud generative-AI extraction call.
// Implementations must report failures through the typed taxonomy:
// domain.ErrMissingCredential, domain.ErrConnectivity and
// domain.ErrUnparsableResponse, so callers branch on errors.Is, never on
// message content.
type FieldExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
