package domain

import "errors"

var (
	ErrNotFound           = errors.New("document not found")
	ErrMissingCredential  = errors.New("no extraction credential configured")
	ErrConnectivity       = errors.New("extraction service unreachable")
	ErrUnparsableResponse = errors.New("unparsable extraction response")
	ErrStorage            = errors.New("document storage failed")
	ErrNoTextExtracted    = errors.New("no text extracted from image")
	ErrPipelineOrder      = errors.New("pipeline stage called out of order")
	ErrInvalidDocument    = errors.New("invalid document")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrJobNotFound        = errors.New("job not found")
	ErrJobNotCancellable  = errors.New("job is not cancellable")
)
