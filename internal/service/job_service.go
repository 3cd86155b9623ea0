package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// EnqueueScanInput is the DTO for submitting a background scan.
type EnqueueScanInput struct {
	ImagePath        string
	DocumentType     domain.DocumentType
	PreExtractedText string
	MaxAttempts      int
}

// JobService defines the background scan queue contract.
type JobService interface {
	// Enqueue stages the image into store-controlled storage and
	// persists a queued job referencing the stable copy.
	Enqueue(ctx context.Context, input EnqueueScanInput) (*domain.ScanJob, error)
	Get(ctx context.Context, id string) (*domain.ScanJob, error)
	List(ctx context.Context, offset, limit int) ([]domain.ScanJob, error)
	Cancel(ctx context.Context, id string) error
}

type jobService struct {
	jobs  port.JobStore
	store port.DocumentStore
}

// NewJobService creates a JobService.
func NewJobService(jobs port.JobStore, store port.DocumentStore) JobService {
	return &jobService{jobs: jobs, store: store}
}

func (s *jobService) Enqueue(ctx context.Context, input EnqueueScanInput) (*domain.ScanJob, error) {
	if input.ImagePath == "" && input.PreExtractedText == "" {
		return nil, fmt.Errorf("%w: a scan job needs an image or pre-extracted text", domain.ErrInvalidDocument)
	}

	imagePath := input.ImagePath
	if imagePath != "" {
		// The caller's path may be a temp upload that disappears before
		// the worker runs; copy it somewhere durable first.
		stable, err := s.store.SaveTempImage(ctx, imagePath)
		if err != nil {
			return nil, fmt.Errorf("staging job image: %w", err)
		}
		imagePath = stable
	}

	job := &domain.ScanJob{
		ImagePath:        imagePath,
		DocumentType:     input.DocumentType,
		PreExtractedText: input.PreExtractedText,
		MaxAttempts:      input.MaxAttempts,
		NextRunAt:        time.Now().UTC(),
	}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	log.Printf("jobs: enqueued scan job %s (type=%s)", job.ID, job.DocumentType)
	return job, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*domain.ScanJob, error) {
	return s.jobs.Get(ctx, id)
}

func (s *jobService) List(ctx context.Context, offset, limit int) ([]domain.ScanJob, error) {
	return s.jobs.List(ctx, offset, limit)
}

func (s *jobService) Cancel(ctx context.Context, id string) error {
	return s.jobs.Cancel(ctx, id)
}
