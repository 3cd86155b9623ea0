package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// Failure codes written to terminal job payloads.
const (
	FailureMissingCredential = "missing_credential"
	FailureConnectivity      = "connectivity"
	FailureUnparsable        = "unparsable_response"
	FailureStorage           = "storage"
	FailureNoText            = "no_text_extracted"
	FailureInternal          = "internal"
)

// ScanQueueConfig holds settings for the scan queue worker.
type ScanQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	MaxAttempts  int
	MinBackoff   time.Duration
}

// JobResult reports one finished job run, successful or not.
type JobResult struct {
	JobID      string
	DocumentID string
	Err        error
}

// ScanQueueWorker polls the durable queue and runs due scan jobs through
// the OCR, extraction and persistence sequence. Retries back off
// linearly: attempt n waits n times the minimum backoff.
type ScanQueueWorker struct {
	jobs       port.JobStore
	store      port.DocumentStore
	recognizer port.TextRecognizer
	extractor  port.FieldExtractor
	exporter   DocumentExporter
	notifier   port.Notifier
	checker    ConnectivityChecker
	cfg        ScanQueueConfig

	wg      sync.WaitGroup
	results chan JobResult
}

// NewScanQueueWorker creates a new ScanQueueWorker. exporter and notifier
// may be nil.
func NewScanQueueWorker(
	jobs port.JobStore,
	store port.DocumentStore,
	recognizer port.TextRecognizer,
	extractor port.FieldExtractor,
	exporter DocumentExporter,
	notifier port.Notifier,
	checker ConnectivityChecker,
	cfg ScanQueueConfig,
) *ScanQueueWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = 30 * time.Second
	}
	if checker == nil {
		checker = NewAlwaysOnlineChecker()
	}
	return &ScanQueueWorker{
		jobs:       jobs,
		store:      store,
		recognizer: recognizer,
		extractor:  extractor,
		exporter:   exporter,
		notifier:   notifier,
		checker:    checker,
		cfg:        cfg,
		results:    make(chan JobResult, 64),
	}
}

// Results exposes finished job runs for observers. Slow readers drop
// results rather than stall the worker.
func (w *ScanQueueWorker) Results() <-chan JobResult {
	return w.results
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight jobs have finished.
func (w *ScanQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("scanQueueWorker: started (poll=%s, concurrency=%d, maxAttempts=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Printf("scanQueueWorker: shutting down, waiting for in-flight jobs...")
			w.wg.Wait()
			log.Printf("scanQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			if !w.checker.Online(ctx) {
				log.Printf("scanQueueWorker: offline, deferring queued jobs")
				continue
			}

			due, err := w.jobs.ClaimDue(ctx, available, time.Now().UTC())
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("scanQueueWorker: ClaimDue error: %v", err)
				continue
			}

			for i := range due {
				job := due[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// In-flight jobs outlive the poll context so a
					// shutdown does not strand a claimed job mid-run.
					runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("scanQueueWorker: dispatching job %s (attempt %d/%d)", job.ID, job.Attempts, job.MaxAttempts)
					w.runJob(runCtx, &job)
				}()
			}
		}
	}
}

// RunOnce claims and runs up to limit due jobs synchronously.
func (w *ScanQueueWorker) RunOnce(ctx context.Context, limit int) error {
	if !w.checker.Online(ctx) {
		return domain.ErrConnectivity
	}
	due, err := w.jobs.ClaimDue(ctx, limit, time.Now().UTC())
	if err != nil {
		return err
	}
	for i := range due {
		w.runJob(ctx, &due[i])
	}
	return nil
}

func (w *ScanQueueWorker) runJob(ctx context.Context, job *domain.ScanJob) {
	doc, err := w.execute(ctx, job)
	if err != nil {
		w.recordFailure(ctx, job, err)
		w.publish(JobResult{JobID: job.ID, Err: err})
		return
	}

	if err := w.jobs.MarkSucceeded(ctx, job.ID, doc.ID); err != nil {
		log.Printf("scanQueueWorker: marking job %s succeeded: %v", job.ID, err)
	}
	job.DocumentID = doc.ID

	if w.exporter != nil {
		if _, eerr := w.exporter.PublishExcel(ctx, doc, ""); eerr != nil {
			log.Printf("scanQueueWorker: excel publish for %s failed (continuing): %v", doc.ID, eerr)
		}
	}
	if w.notifier != nil {
		if nerr := w.notifier.SendJobCompleted(ctx, job); nerr != nil {
			log.Printf("scanQueueWorker: completion notification for job %s failed: %v", job.ID, nerr)
		}
	}

	log.Printf("scanQueueWorker: job %s produced document %s", job.ID, doc.ID)
	w.publish(JobResult{JobID: job.ID, DocumentID: doc.ID})
}

// execute runs the pipeline stages for one claimed job.
func (w *ScanQueueWorker) execute(ctx context.Context, job *domain.ScanJob) (*domain.Document, error) {
	text := job.PreExtractedText
	if strings.TrimSpace(text) == "" {
		ocrPath := job.ImagePath
		if enhanced, perr := w.recognizer.PreprocessImage(ctx, job.ImagePath); perr == nil {
			ocrPath = enhanced
		}
		extracted, err := w.recognizer.ExtractText(ctx, ocrPath)
		if err != nil {
			return nil, fmt.Errorf("recognizing text for job %s: %w", job.ID, err)
		}
		text = extracted
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("job %s image %s: %w", job.ID, job.ImagePath, domain.ErrNoTextExtracted)
	}

	docType := job.DocumentType
	if docType == "" || docType == domain.TypeUnknown {
		docType = w.recognizer.DetectDocumentType(text)
	}

	out, err := w.extractor.Extract(ctx, port.ExtractInput{
		Text:         text,
		DocumentType: docType,
		ImagePath:    job.ImagePath,
	})
	if err != nil {
		return nil, err
	}

	if err := w.store.Save(ctx, out.Document); err != nil {
		return nil, fmt.Errorf("%w: saving document for job %s: %v", domain.ErrStorage, job.ID, err)
	}
	return out.Document, nil
}

// recordFailure re-queues the job with its linear backoff deadline, or
// writes the terminal failure payload when attempts are exhausted. Blank
// OCR results are deterministic and fail immediately.
func (w *ScanQueueWorker) recordFailure(ctx context.Context, job *domain.ScanJob, runErr error) {
	log.Printf("scanQueueWorker: job %s attempt %d failed: %v", job.ID, job.Attempts, runErr)

	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = w.cfg.MaxAttempts
	}

	terminal := job.Attempts >= maxAttempts || errors.Is(runErr, domain.ErrNoTextExtracted)
	if terminal {
		failure := domain.JobFailure{
			Code:     ClassifyFailure(runErr),
			Message:  runErr.Error(),
			Attempts: job.Attempts,
		}
		if err := w.jobs.MarkFailed(ctx, job.ID, failure); err != nil {
			log.Printf("scanQueueWorker: marking job %s failed: %v", job.ID, err)
		}
		if w.notifier != nil {
			if nerr := w.notifier.SendJobFailed(ctx, job, failure); nerr != nil {
				log.Printf("scanQueueWorker: failure notification for job %s failed: %v", job.ID, nerr)
			}
		}
		return
	}

	nextRunAt := time.Now().UTC().Add(time.Duration(job.Attempts) * w.cfg.MinBackoff)
	if err := w.jobs.MarkRetry(ctx, job.ID, job.Attempts, nextRunAt, runErr.Error()); err != nil {
		log.Printf("scanQueueWorker: re-queueing job %s: %v", job.ID, err)
	}
}

// ClassifyFailure maps the typed error taxonomy to a failure code.
func ClassifyFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return FailureMissingCredential
	case errors.Is(err, domain.ErrConnectivity):
		return FailureConnectivity
	case errors.Is(err, domain.ErrUnparsableResponse):
		return FailureUnparsable
	case errors.Is(err, domain.ErrStorage):
		return FailureStorage
	case errors.Is(err, domain.ErrNoTextExtracted):
		return FailureNoText
	default:
		return FailureInternal
	}
}

func (w *ScanQueueWorker) publish(r JobResult) {
	select {
	case w.results <- r:
	default:
	}
}
