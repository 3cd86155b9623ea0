// Package noop logs job notifications instead of delivering them. Used
// in development and when no notification provider is configured.
package noop

import (
	"context"
	"log"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

type noopNotifier struct{}

// NewNotifier creates a Notifier that only logs.
func NewNotifier() port.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) SendJobCompleted(ctx context.Context, job *domain.ScanJob) error {
	log.Printf("notify (noop): job %s completed, document %s", job.ID, job.DocumentID)
	return nil
}

func (n *noopNotifier) SendJobFailed(ctx context.Context, job *domain.ScanJob, failure domain.JobFailure) error {
	log.Printf("notify (noop): job %s failed after %d attempts: %s: %s",
		job.ID, failure.Attempts, failure.Code, failure.Message)
	return nil
}
