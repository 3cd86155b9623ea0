package queue_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargoscan/internal/domain"
	"cargoscan/internal/queue"
)

func newTestStore(t *testing.T) *queue.Store {
	t.Helper()
	db, err := queue.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return queue.NewStore(db)
}

func queuedScanJob() *domain.ScanJob {
	return &domain.ScanJob{
		ImagePath:    "/data/images/img.jpg",
		DocumentType: domain.TypeInvoice,
	}
}

func TestStore_EnqueueAppliesDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := &domain.ScanJob{ImagePath: "/data/images/img.jpg"}
	require.NoError(t, s.Enqueue(ctx, job))

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.JobStatusQueued, job.Status)
	assert.Equal(t, 5, job.MaxAttempts)
	assert.Equal(t, domain.TypeUnknown, job.DocumentType)
	assert.False(t, job.NextRunAt.IsZero())

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, stored.ID)
	assert.Equal(t, "/data/images/img.jpg", stored.ImagePath)
	assert.Equal(t, domain.JobStatusQueued, stored.Status)
	assert.Equal(t, 0, stored.Attempts)
	assert.WithinDuration(t, job.NextRunAt, stored.NextRunAt, time.Second)
}

func TestStore_GetUnknownID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, second))

	jobs, err := s.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)

	page, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestStore_ClaimDueAdvancesAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	due := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, due))

	later := queuedScanJob()
	later.NextRunAt = time.Now().UTC().Add(time.Hour)
	require.NoError(t, s.Enqueue(ctx, later))

	claimed, err := s.ClaimDue(ctx, 10, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, due.ID, claimed[0].ID)
	assert.Equal(t, domain.JobStatusRunning, claimed[0].Status)
	assert.Equal(t, 1, claimed[0].Attempts)

	// A second sweep finds nothing: the running job is no longer
	// claimable and the other one is not yet due.
	again, err := s.ClaimDue(ctx, 10, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, again)

	stored, err := s.Get(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
}

func TestStore_ClaimDueHonoursLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Enqueue(ctx, queuedScanJob()))
	}

	claimed, err := s.ClaimDue(ctx, 2, time.Now().UTC())
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	rest, err := s.ClaimDue(ctx, 2, time.Now().UTC())
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestStore_MarkRetryRequeues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	claimed, err := s.ClaimDue(ctx, 1, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	next := time.Now().UTC().Add(-time.Second)
	require.NoError(t, s.MarkRetry(ctx, job.ID, 1, next, "ocr backend unavailable"))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusQueued, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.Equal(t, "ocr backend unavailable", stored.LastError)

	reclaimed, err := s.ClaimDue(ctx, 1, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, job.ID, reclaimed[0].ID)
	assert.Equal(t, 2, reclaimed[0].Attempts)
}

func TestStore_MarkSucceededClearsFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	require.NoError(t, s.MarkRetry(ctx, job.ID, 1, time.Now().UTC(), "transient"))
	require.NoError(t, s.MarkSucceeded(ctx, job.ID, "doc-42"))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, stored.Status)
	assert.Equal(t, "doc-42", stored.DocumentID)
	assert.Empty(t, stored.LastError)
	assert.Empty(t, stored.FailureCode)
}

func TestStore_MarkFailedWritesPayload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	require.NoError(t, s.MarkFailed(ctx, job.ID, domain.JobFailure{
		Code:     "connectivity",
		Message:  "dial tcp: connection refused",
		Attempts: 3,
	}))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, stored.Status)
	assert.Equal(t, "connectivity", stored.FailureCode)
	assert.Equal(t, "dial tcp: connection refused", stored.LastError)
	assert.Equal(t, 3, stored.Attempts)
}

func TestStore_MarkUnknownJob(t *testing.T) {
	s := newTestStore(t)

	err := s.MarkSucceeded(context.Background(), "no-such-job", "doc-1")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestStore_Cancel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	require.NoError(t, s.Cancel(ctx, job.ID))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, stored.Status)
}

func TestStore_CancelRunningJobSuppressesRetry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	_, err := s.ClaimDue(ctx, 1, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, job.ID))

	// The in-flight attempt finishes and reports back; cancellation wins
	// and the job never re-enters the queue.
	require.NoError(t, s.MarkRetry(ctx, job.ID, 1, time.Now().UTC().Add(-time.Second), "transient"))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, stored.Status)

	claimed, err := s.ClaimDue(ctx, 1, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestStore_CancelledJobIgnoresLateSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	_, err := s.ClaimDue(ctx, 1, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, job.ID))
	require.NoError(t, s.MarkSucceeded(ctx, job.ID, "doc-42"))

	stored, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, stored.Status)
	assert.Empty(t, stored.DocumentID)
}

func TestStore_CancelTerminalJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := queuedScanJob()
	require.NoError(t, s.Enqueue(ctx, job))
	require.NoError(t, s.MarkFailed(ctx, job.ID, domain.JobFailure{
		Code: "internal", Message: "boom", Attempts: 5,
	}))

	err := s.Cancel(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotCancellable)
}

func TestStore_CancelUnknownJob(t *testing.T) {
	s := newTestStore(t)

	err := s.Cancel(context.Background(), "no-such-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
