package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cargoscan/internal/domain"
	"cargoscan/internal/port"
	"cargoscan/internal/service"
	"cargoscan/mocks"
)

const sampleOCRText = "FACTURA\nNúmero: F-2023-001\nTotal: 90.75€"

func extractedInvoice() *domain.Document {
	doc := domain.NewDocument(domain.TypeInvoice, "/data/images/img.jpg", sampleOCRText)
	doc.Invoice = &domain.InvoiceFields{
		InvoiceNumber: "F-2023-001",
		TotalAmount:   90.75,
		Currency:      "EUR",
	}
	return doc
}

func pipelineFixture() (*mocks.MockDocumentStore, *mocks.MockTextRecognizer, *mocks.MockFieldExtractor, *mocks.MockDocumentExporter, service.Pipeline) {
	store := new(mocks.MockDocumentStore)
	recognizer := new(mocks.MockTextRecognizer)
	fieldExtractor := new(mocks.MockFieldExtractor)
	exporter := new(mocks.MockDocumentExporter)
	p := service.NewPipeline(store, recognizer, fieldExtractor, exporter)
	return store, recognizer, fieldExtractor, exporter, p
}

func stubImageStage(store *mocks.MockDocumentStore, recognizer *mocks.MockTextRecognizer, text string) {
	store.On("SaveTempImage", mock.Anything, "/tmp/upload.jpg").Return("/data/images/img.jpg", nil)
	recognizer.On("PreprocessImage", mock.Anything, "/data/images/img.jpg").Return("/tmp/img_ocr.png", nil)
	recognizer.On("ExtractText", mock.Anything, "/tmp/img_ocr.png").Return(text, nil)
	if text != "" {
		recognizer.On("ExtractStructuredText", mock.Anything, "/tmp/img_ocr.png").Return(map[string]string{"total": "90.75€"}, nil)
		recognizer.On("DetectDocumentType", text).Return(domain.TypeInvoice)
	}
}

func TestPipeline_StartsIdle(t *testing.T) {
	_, _, _, _, p := pipelineFixture()
	assert.Equal(t, service.PhaseIdle, p.State().Phase)
}

func TestPipeline_ProcessImage_Success(t *testing.T) {
	store, recognizer, _, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	state, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	assert.Equal(t, service.PhaseExtractingText, state.Phase)
	assert.Equal(t, "/data/images/img.jpg", state.ImagePath)
	assert.Equal(t, sampleOCRText, state.RawText)
	assert.Equal(t, domain.TypeInvoice, state.DocumentType)
	assert.Equal(t, "90.75€", state.StructuredText["total"])
}

func TestPipeline_ProcessImage_BlankTextNeverReachesExtractor(t *testing.T) {
	store, recognizer, fieldExtractor, _, p := pipelineFixture()
	store.On("SaveTempImage", mock.Anything, "/tmp/upload.jpg").Return("/data/images/img.jpg", nil)
	recognizer.On("PreprocessImage", mock.Anything, "/data/images/img.jpg").Return("/tmp/img_ocr.png", nil)
	// Both the enhanced copy and the original come back blank.
	recognizer.On("ExtractText", mock.Anything, "/tmp/img_ocr.png").Return("   \n", nil)
	recognizer.On("ExtractText", mock.Anything, "/data/images/img.jpg").Return("", nil)

	state, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)
	assert.Equal(t, service.PhaseError, state.Phase)
	assert.NotEmpty(t, state.Message)

	// Processing from the error state must refuse, and the extraction
	// service must never have been contacted.
	_, err = p.ProcessDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrPipelineOrder)
	fieldExtractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestPipeline_ProcessImage_PreprocessFailureFallsBackToOriginal(t *testing.T) {
	store, recognizer, _, _, p := pipelineFixture()
	store.On("SaveTempImage", mock.Anything, "/tmp/upload.jpg").Return("/data/images/img.jpg", nil)
	recognizer.On("PreprocessImage", mock.Anything, "/data/images/img.jpg").Return("", assert.AnError)
	recognizer.On("ExtractText", mock.Anything, "/data/images/img.jpg").Return(sampleOCRText, nil)
	recognizer.On("ExtractStructuredText", mock.Anything, "/data/images/img.jpg").Return(map[string]string{}, nil)
	recognizer.On("DetectDocumentType", sampleOCRText).Return(domain.TypeInvoice)

	state, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)
	assert.Equal(t, service.PhaseExtractingText, state.Phase)
	assert.Equal(t, sampleOCRText, state.RawText)
}

func TestPipeline_ProcessDocument_HappyPath(t *testing.T) {
	store, recognizer, fieldExtractor, exporter, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	doc := extractedInvoice()
	fieldExtractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Text == sampleOCRText && in.DocumentType == domain.TypeInvoice
	})).Return(&port.ExtractOutput{Document: doc, ModelUsed: "claude-test"}, nil)
	store.On("Save", mock.Anything, doc).Return(nil)
	exporter.On("PublishExcel", mock.Anything, doc, "").Return(&service.ExportArtifact{Name: "Invoice_F-2023-001.xlsx"}, nil)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, service.PhaseDocumentReady, state.Phase)
	require.NotNil(t, state.Document)
	assert.Equal(t, "F-2023-001", state.Document.Invoice.InvoiceNumber)
	assert.Equal(t, 90.75, state.Document.Invoice.TotalAmount)

	store.AssertExpectations(t)
	exporter.AssertExpectations(t)
}

func TestPipeline_ProcessDocument_UnknownRoutesToInvoiceSchema(t *testing.T) {
	store, recognizer, fieldExtractor, exporter, p := pipelineFixture()
	store.On("SaveTempImage", mock.Anything, "/tmp/upload.jpg").Return("/data/images/img.jpg", nil)
	recognizer.On("PreprocessImage", mock.Anything, "/data/images/img.jpg").Return("/tmp/img_ocr.png", nil)
	recognizer.On("ExtractText", mock.Anything, "/tmp/img_ocr.png").Return("texto sin pistas", nil)
	recognizer.On("ExtractStructuredText", mock.Anything, "/tmp/img_ocr.png").Return(map[string]string{}, nil)
	recognizer.On("DetectDocumentType", "texto sin pistas").Return(domain.TypeUnknown)

	doc := extractedInvoice()
	fieldExtractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		// The extractor receives the detected type; its decoder routes
		// unknown to the invoice schema.
		return in.DocumentType == domain.TypeUnknown
	})).Return(&port.ExtractOutput{Document: doc}, nil)
	store.On("Save", mock.Anything, doc).Return(nil)
	exporter.On("PublishExcel", mock.Anything, doc, "").Return(&service.ExportArtifact{}, nil)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeInvoice, state.DocumentType)
}

func TestPipeline_ProcessDocument_TypeOverride(t *testing.T) {
	store, recognizer, fieldExtractor, exporter, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	doc := domain.NewDocument(domain.TypeDeliveryNote, "/data/images/img.jpg", sampleOCRText)
	doc.DeliveryNote = &domain.DeliveryNoteFields{NoteNumber: "A-7"}
	fieldExtractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.DocumentType == domain.TypeDeliveryNote
	})).Return(&port.ExtractOutput{Document: doc}, nil)
	store.On("Save", mock.Anything, doc).Return(nil)
	exporter.On("PublishExcel", mock.Anything, doc, "").Return(&service.ExportArtifact{}, nil)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), domain.TypeDeliveryNote)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeDeliveryNote, state.DocumentType)
}

func TestPipeline_ProcessDocument_BeforeProcessImage(t *testing.T) {
	_, _, fieldExtractor, _, p := pipelineFixture()

	_, err := p.ProcessDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrPipelineOrder)
	fieldExtractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestPipeline_ProcessDocument_CredentialErrorIsSpecific(t *testing.T) {
	store, recognizer, fieldExtractor, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrMissingCredential)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Equal(t, service.PhaseError, state.Phase)
	assert.Contains(t, state.Message, "credentials")
	// A credential problem must not be reported as a network problem.
	assert.NotContains(t, state.Message, "network")
}

func TestPipeline_ProcessDocument_ConnectivityError(t *testing.T) {
	store, recognizer, fieldExtractor, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrConnectivity)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrConnectivity)
	assert.Equal(t, service.PhaseError, state.Phase)
	assert.Contains(t, state.Message, "network")
}

func TestPipeline_ProcessDocument_RetryAfterTransientFailure(t *testing.T) {
	store, recognizer, fieldExtractor, exporter, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	doc := extractedInvoice()
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, domain.ErrConnectivity).Once()
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{Document: doc}, nil).Once()
	store.On("Save", mock.Anything, doc).Return(nil)
	exporter.On("PublishExcel", mock.Anything, doc, "").Return(&service.ExportArtifact{}, nil)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrConnectivity)
	require.Equal(t, service.PhaseError, state.Phase)

	// The recognized text and staged image survive the failure, so the
	// operator's retry runs straight from the error state.
	state, err = p.ProcessDocument(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, service.PhaseDocumentReady, state.Phase)
	assert.Empty(t, state.Message)
	require.NotNil(t, state.Document)
	assert.Equal(t, "F-2023-001", state.Document.Invoice.InvoiceNumber)
	fieldExtractor.AssertExpectations(t)
}

func TestPipeline_ProcessDocument_SaveFailureIsStorageMessage(t *testing.T) {
	store, recognizer, fieldExtractor, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	doc := extractedInvoice()
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Document: doc}, nil)
	store.On("Save", mock.Anything, doc).Return(domain.ErrStorage)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, service.PhaseError, state.Phase)
	assert.Contains(t, state.Message, "extracted but could not be saved")
}

func TestPipeline_ExcelPublishFailureIsNonFatal(t *testing.T) {
	store, recognizer, fieldExtractor, exporter, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	doc := extractedInvoice()
	fieldExtractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{Document: doc}, nil)
	store.On("Save", mock.Anything, doc).Return(nil)
	exporter.On("PublishExcel", mock.Anything, doc, "").Return(nil, assert.AnError)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	state, err := p.ProcessDocument(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, service.PhaseDocumentReady, state.Phase)
}

func TestPipeline_ResetFromAnyState(t *testing.T) {
	store, recognizer, _, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	p.Reset()
	state := p.State()
	assert.Equal(t, service.PhaseIdle, state.Phase)
	assert.Empty(t, state.RawText)
	assert.Nil(t, state.Document)

	// Reset is safe when already idle.
	p.Reset()
	assert.Equal(t, service.PhaseIdle, p.State().Phase)
}

func TestPipeline_SubscribeSeesTransitions(t *testing.T) {
	store, recognizer, _, _, p := pipelineFixture()
	stubImageStage(store, recognizer, sampleOCRText)

	events, cancel := p.Subscribe(16)
	defer cancel()

	_, err := p.ProcessImage(context.Background(), "/tmp/upload.jpg")
	require.NoError(t, err)

	var phases []service.PipelinePhase
	for len(events) > 0 {
		phases = append(phases, (<-events).Phase)
	}
	assert.Contains(t, phases, service.PhaseCapturing)
	assert.Contains(t, phases, service.PhaseExtractingText)
}

func TestPipeline_SubscribeZeroBufferStillReceives(t *testing.T) {
	_, _, _, _, p := pipelineFixture()

	events, cancel := p.Subscribe(0)
	defer cancel()

	p.Reset()

	select {
	case st := <-events:
		assert.Equal(t, service.PhaseIdle, st.Phase)
	default:
		t.Fatal("transition was dropped")
	}
}
