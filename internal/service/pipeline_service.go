package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
)

// PipelinePhase names a stage of the capture pipeline.
type PipelinePhase string

const (
	PhaseIdle               PipelinePhase = "IDLE"
	PhaseCapturing          PipelinePhase = "CAPTURING"
	PhaseExtractingText     PipelinePhase = "EXTRACTING_TEXT"
	PhaseProcessingDocument PipelinePhase = "PROCESSING_DOCUMENT"
	PhaseDocumentReady      PipelinePhase = "DOCUMENT_READY"
	PhaseError              PipelinePhase = "ERROR"
)

// Operator-facing failure messages. Credential problems must never be
// reported as generic network errors.
const (
	msgImageStaging    = "The captured image could not be stored. Free up disk space and retry."
	msgNoText          = "No text could be recognized in the image. Retake the photo with better lighting."
	msgMissingCred     = "Extraction service credentials are not configured. Set the API key and retry."
	msgConnectivity    = "Could not reach the extraction service. Check the network connection and retry."
	msgUnparsable      = "The extraction service returned a response that could not be understood. Retry or process the job in the background."
	msgStorage         = "The document was extracted but could not be saved."
	msgGenericExtract  = "Document processing failed. Retry or enqueue the scan as a background job."
)

// PipelineState is a snapshot of the capture pipeline. Document is only
// set in PhaseDocumentReady.
type PipelineState struct {
	Phase          PipelinePhase       `json:"phase"`
	ImagePath      string              `json:"image_path,omitempty"`
	RawText        string              `json:"raw_text,omitempty"`
	StructuredText map[string]string   `json:"structured_text,omitempty"`
	DocumentType   domain.DocumentType `json:"document_type,omitempty"`
	Document       *domain.Document    `json:"document,omitempty"`
	Message        string              `json:"message,omitempty"`
}

// Pipeline drives one capture through OCR, classification, extraction and
// persistence. A single instance serves one operator; calls serialize.
type Pipeline interface {
	// ProcessImage stages the image, runs OCR and classifies the text.
	// A blank OCR result moves the pipeline to PhaseError and the
	// extraction service is never contacted.
	ProcessImage(ctx context.Context, imagePath string) (PipelineState, error)
	// ProcessDocument extracts structured fields from the recognized
	// text and persists the resulting document. docType overrides the
	// detected classification when non-empty; TypeUnknown routes to the
	// invoice schema.
	ProcessDocument(ctx context.Context, docType domain.DocumentType) (PipelineState, error)
	// Reset returns the pipeline to PhaseIdle from any state.
	Reset()
	State() PipelineState
	// Subscribe registers a listener for state transitions. The cancel
	// func releases it.
	Subscribe(buffer int) (<-chan PipelineState, func())
}

type pipelineService struct {
	store      port.DocumentStore
	recognizer port.TextRecognizer
	extractor  port.FieldExtractor
	exporter   DocumentExporter

	mu    sync.Mutex
	state PipelineState

	subMu   sync.Mutex
	subs    map[int]chan PipelineState
	nextSub int
}

// NewPipeline creates the capture pipeline. exporter may be nil, in which
// case no artifact is published on completion.
func NewPipeline(store port.DocumentStore, recognizer port.TextRecognizer, extractor port.FieldExtractor, exporter DocumentExporter) Pipeline {
	return &pipelineService{
		store:      store,
		recognizer: recognizer,
		extractor:  extractor,
		exporter:   exporter,
		state:      PipelineState{Phase: PhaseIdle},
		subs:       make(map[int]chan PipelineState),
	}
}

func (s *pipelineService) ProcessImage(ctx context.Context, imagePath string) (PipelineState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(PipelineState{Phase: PhaseCapturing, ImagePath: imagePath})

	stable, err := s.store.SaveTempImage(ctx, imagePath)
	if err != nil {
		log.Printf("pipeline: staging image failed: %v", err)
		s.setState(PipelineState{Phase: PhaseError, ImagePath: imagePath, Message: msgImageStaging})
		return s.state, fmt.Errorf("staging captured image: %w", err)
	}

	s.setState(PipelineState{Phase: PhaseExtractingText, ImagePath: stable})

	ocrPath := stable
	if enhanced, perr := s.recognizer.PreprocessImage(ctx, stable); perr != nil {
		log.Printf("pipeline: preprocess failed, using original image: %v", perr)
	} else {
		ocrPath = enhanced
	}

	text, err := s.recognizer.ExtractText(ctx, ocrPath)
	if err == nil && strings.TrimSpace(text) == "" && ocrPath != stable {
		// The enhanced copy sometimes loses faint print; try the original.
		text, err = s.recognizer.ExtractText(ctx, stable)
	}
	if err != nil {
		log.Printf("pipeline: ocr failed for %s: %v", stable, err)
		s.setState(PipelineState{Phase: PhaseError, ImagePath: stable, Message: msgNoText})
		return s.state, fmt.Errorf("recognizing text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		s.setState(PipelineState{Phase: PhaseError, ImagePath: stable, Message: msgNoText})
		return s.state, fmt.Errorf("image %s: %w", stable, domain.ErrNoTextExtracted)
	}

	structured, serr := s.recognizer.ExtractStructuredText(ctx, ocrPath)
	if serr != nil {
		log.Printf("pipeline: structured text extraction failed (continuing): %v", serr)
		structured = nil
	}

	s.setState(PipelineState{
		Phase:          PhaseExtractingText,
		ImagePath:      stable,
		RawText:        text,
		StructuredText: structured,
		DocumentType:   s.recognizer.DetectDocumentType(text),
	})
	return s.state, nil
}

func (s *pipelineService) ProcessDocument(ctx context.Context, docType domain.DocumentType) (PipelineState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Presence-based gate rather than a phase check: after a transient
	// extraction failure the recognized text and staged image are still
	// here, and the operator may retry straight from PhaseError.
	if strings.TrimSpace(s.state.RawText) == "" || s.state.ImagePath == "" {
		return s.state, fmt.Errorf("%w: ProcessDocument requires recognized text", domain.ErrPipelineOrder)
	}

	if docType == "" {
		docType = s.state.DocumentType
	}

	prev := s.state
	prev.Phase = PhaseProcessingDocument
	prev.DocumentType = docType
	prev.Message = ""
	prev.Document = nil
	s.setState(prev)

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		Text:         s.state.RawText,
		DocumentType: docType,
		ImagePath:    s.state.ImagePath,
	})
	if err != nil {
		s.failProcessing(err)
		return s.state, err
	}

	if err := s.store.Save(ctx, out.Document); err != nil {
		log.Printf("pipeline: saving document %s failed: %v", out.Document.ID, err)
		s.failProcessing(fmt.Errorf("%w: %v", domain.ErrStorage, err))
		return s.state, fmt.Errorf("saving document: %w", err)
	}

	if s.exporter != nil {
		if _, eerr := s.exporter.PublishExcel(ctx, out.Document, ""); eerr != nil {
			log.Printf("pipeline: excel publish for %s failed (continuing): %v", out.Document.ID, eerr)
		}
	}

	s.setState(PipelineState{
		Phase:        PhaseDocumentReady,
		ImagePath:    s.state.ImagePath,
		RawText:      s.state.RawText,
		DocumentType: out.Document.Type,
		Document:     out.Document.Clone(),
	})
	log.Printf("pipeline: document %s ready (type=%s, model=%s)", out.Document.ID, out.Document.Type, out.ModelUsed)
	return s.state, nil
}

func (s *pipelineService) failProcessing(err error) {
	next := s.state
	next.Phase = PhaseError
	next.Message = messageFor(err)
	s.setState(next)
}

// messageFor maps the typed error taxonomy to the operator-facing text.
func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return msgMissingCred
	case errors.Is(err, domain.ErrConnectivity):
		return msgConnectivity
	case errors.Is(err, domain.ErrUnparsableResponse):
		return msgUnparsable
	case errors.Is(err, domain.ErrStorage):
		return msgStorage
	case errors.Is(err, domain.ErrNoTextExtracted):
		return msgNoText
	default:
		return msgGenericExtract
	}
}

func (s *pipelineService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setState(PipelineState{Phase: PhaseIdle})
}

func (s *pipelineService) State() PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *pipelineService) Subscribe(buffer int) (<-chan PipelineState, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if buffer <= 0 {
		buffer = 1
	}

	id := s.nextSub
	s.nextSub++
	ch := make(chan PipelineState, buffer)
	s.subs[id] = ch

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// setState replaces the snapshot and fans it out without blocking; slow
// subscribers drop transitions. Caller holds s.mu.
func (s *pipelineService) setState(next PipelineState) {
	s.state = next

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- next:
		default:
		}
	}
}
