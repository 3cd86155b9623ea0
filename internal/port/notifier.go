package port

import (
	"context"

	"cargoscan/internal/domain"
)

// Notifier reports background job outcomes to the operator.
type Notifier interface {
	SendJobCompleted(ctx context.Context, job *domain.ScanJob) error
	SendJobFailed(ctx context.Context, job *domain.ScanJob, failure domain.JobFailure) error
}
