package port

import (
	"context"
	"io"
)

// PutInput encapsulates the parameters needed to publish an artifact.
type PutInput struct {
	Key         string
	Body        io.Reader
	ContentType string
}

// PutOutput contains the result of a successful publish.
type PutOutput struct {
	Location string
}

// ObjectStorage abstracts where export artifacts are published: the
// user-visible documents directory, or an S3 bucket for off-device sharing.
type ObjectStorage interface {
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
	Delete(ctx context.Context, key string) error
}
