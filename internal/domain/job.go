package domain

import "time"

// ScanJob is a durable background pipeline run: the same extract →
// classify → persist sequence as the interactive pipeline, executed by
// the queue worker with retry bookkeeping.
type ScanJob struct {
	ID               string       `db:"id" json:"id"`
	ImagePath        string       `db:"image_path" json:"image_path"`
	DocumentType     DocumentType `db:"document_type" json:"document_type"`
	PreExtractedText string       `db:"pre_extracted_text" json:"pre_extracted_text,omitempty"`
	Status           JobStatus    `db:"status" json:"status"`
	Attempts         int          `db:"attempts" json:"attempts"`
	MaxAttempts      int          `db:"max_attempts" json:"max_attempts"`
	FailureCode      string       `db:"failure_code" json:"failure_code,omitempty"`
	LastError        string       `db:"last_error" json:"last_error,omitempty"`
	DocumentID       string       `db:"document_id" json:"document_id,omitempty"`
	NextRunAt        time.Time    `db:"next_run_at" json:"next_run_at"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

// JobFailure is the structured terminal failure payload reported for a
// job that exhausted its attempts.
type JobFailure struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Attempts int    `json:"attempts"`
}
