package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// Store is the sqlite-backed port.JobStore implementation.
type Store struct {
	db *sqlx.DB
}

var _ port.JobStore = (*Store)(nil)

// NewStore creates a Store over an opened job database.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Enqueue persists a new queued job, assigning id and timestamps.
func (s *Store) Enqueue(ctx context.Context, job *domain.ScanJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	job.Status = domain.JobStatusQueued
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.NextRunAt.IsZero() {
		job.NextRunAt = now
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = 5
	}
	if job.DocumentType == "" {
		job.DocumentType = domain.TypeUnknown
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO scan_jobs (
			id, image_path, document_type, pre_extracted_text, status,
			attempts, max_attempts, failure_code, last_error, document_id,
			next_run_at, created_at, updated_at
		) VALUES (
			:id, :image_path, :document_type, :pre_extracted_text, :status,
			:attempts, :max_attempts, :failure_code, :last_error, :document_id,
			:next_run_at, :created_at, :updated_at
		)`, job)
	if err != nil {
		return fmt.Errorf("enqueuing job: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.ScanJob, error) {
	var job domain.ScanJob
	err := s.db.GetContext(ctx, &job, `SELECT * FROM scan_jobs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Store) List(ctx context.Context, offset, limit int) ([]domain.ScanJob, error) {
	if limit <= 0 {
		limit = 50
	}
	jobs := []domain.ScanJob{}
	err := s.db.SelectContext(ctx, &jobs, `
		SELECT * FROM scan_jobs ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// ClaimDue transitions up to limit due queued jobs to running and
// returns them with the attempt counter already advanced.
func (s *Store) ClaimDue(ctx context.Context, limit int, now time.Time) ([]domain.ScanJob, error) {
	if limit <= 0 {
		return nil, nil
	}
	var due []domain.ScanJob
	err := s.db.SelectContext(ctx, &due, `
		SELECT * FROM scan_jobs
		WHERE status = ? AND next_run_at <= ?
		ORDER BY next_run_at
		LIMIT ?`, domain.JobStatusQueued, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("selecting due jobs: %w", err)
	}

	claimed := due[:0]
	for i := range due {
		res, err := s.db.ExecContext(ctx, `
			UPDATE scan_jobs
			SET status = ?, attempts = attempts + 1, updated_at = ?
			WHERE id = ? AND status = ?`,
			domain.JobStatusRunning, now.UTC(), due[i].ID, domain.JobStatusQueued)
		if err != nil {
			return nil, fmt.Errorf("claiming job %s: %w", due[i].ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		due[i].Status = domain.JobStatusRunning
		due[i].Attempts++
		claimed = append(claimed, due[i])
	}
	return claimed, nil
}

func (s *Store) MarkSucceeded(ctx context.Context, id, documentID string) error {
	return s.mark(ctx, id, `
		UPDATE scan_jobs
		SET status = ?, document_id = ?, failure_code = '', last_error = '', updated_at = ?
		WHERE id = ? AND status != ?`,
		domain.JobStatusSucceeded, documentID, time.Now().UTC(), id, domain.JobStatusCancelled)
}

func (s *Store) MarkRetry(ctx context.Context, id string, attempts int, nextRunAt time.Time, lastError string) error {
	return s.mark(ctx, id, `
		UPDATE scan_jobs
		SET status = ?, attempts = ?, next_run_at = ?, last_error = ?, updated_at = ?
		WHERE id = ? AND status != ?`,
		domain.JobStatusQueued, attempts, nextRunAt.UTC(), lastError, time.Now().UTC(), id, domain.JobStatusCancelled)
}

func (s *Store) MarkFailed(ctx context.Context, id string, failure domain.JobFailure) error {
	return s.mark(ctx, id, `
		UPDATE scan_jobs
		SET status = ?, failure_code = ?, last_error = ?, attempts = ?, updated_at = ?
		WHERE id = ? AND status != ?`,
		domain.JobStatusFailed, failure.Code, failure.Message, failure.Attempts, time.Now().UTC(), id, domain.JobStatusCancelled)
}

// Cancel marks a job cancelled by id. A queued job leaves the queue
// immediately. A running job is not interrupted, but its attempt's
// outcome is discarded and no retry is scheduled. Terminal jobs cannot
// be cancelled.
func (s *Store) Cancel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scan_jobs SET status = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)`,
		domain.JobStatusCancelled, time.Now().UTC(), id,
		domain.JobStatusQueued, domain.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("cancelling job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", domain.ErrJobNotCancellable, id)
	}
	return nil
}

// mark applies a worker-side transition. A job cancelled while in flight
// keeps its cancelled status; the late write is dropped silently.
func (s *Store) mark(ctx context.Context, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == domain.JobStatusCancelled {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrJobNotFound, id)
}
