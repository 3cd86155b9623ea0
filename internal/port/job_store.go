package port

import (
	"context"
	"time"

	"cargoscan/internal/domain"
)

// JobStore defines the contract for durable scan-job persistence.
type JobStore interface {
	Enqueue(ctx context.Context, job *domain.ScanJob) error
	Get(ctx context.Context, id string) (*domain.ScanJob, error)
	List(ctx context.Context, offset, limit int) ([]domain.ScanJob, error)
	// ClaimDue marks up to limit queued jobs whose next_run_at has passed
	// as running and returns them.
	ClaimDue(ctx context.Context, limit int, now time.Time) ([]domain.ScanJob, error)
	MarkSucceeded(ctx context.Context, id, documentID string) error
	// MarkRetry re-queues a failed attempt with its backoff deadline.
	MarkRetry(ctx context.Context, id string, attempts int, nextRunAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id string, failure domain.JobFailure) error
	// Cancel transitions a queued job to cancelled. Running or terminal
	// jobs return domain.ErrJobNotCancellable.
	Cancel(ctx context.Context, id string) error
}
