package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"cargoscan/internal/domain"
	"cargoscan/internal/export"
	"cargoscan/internal/port"
)

// ExportArtifact is a rendered export plus its publish location.
type ExportArtifact struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Location    string `json:"location,omitempty"`
	Body        []byte `json:"-"`
}

// DocumentExporter renders documents into shareable artifacts and
// publishes them to object storage. name overrides the default
// type-derived filename when non-empty.
type DocumentExporter interface {
	PublishExcel(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error)
	PublishJSON(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error)
	PublishQR(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error)
}

type exportService struct {
	storage port.ObjectStorage
}

// NewExportService creates a DocumentExporter backed by the given storage.
func NewExportService(storage port.ObjectStorage) DocumentExporter {
	return &exportService{storage: storage}
}

func (s *exportService) PublishExcel(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error) {
	body, err := export.Workbook(doc)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, doc, name, ".xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

func (s *exportService) PublishJSON(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error) {
	body, err := export.ShareableJSON(doc)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, doc, name, ".json", "application/json", body)
}

func (s *exportService) PublishQR(ctx context.Context, doc *domain.Document, name string) (*ExportArtifact, error) {
	body, err := export.QRReference(doc)
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, doc, name, ".png", "image/png", body)
}

func (s *exportService) publish(ctx context.Context, doc *domain.Document, name, ext, contentType string, body []byte) (*ExportArtifact, error) {
	if name == "" {
		name = doc.ExportBaseName()
	}
	key := name + ext

	out, err := s.storage.Put(ctx, port.PutInput{
		Key:         key,
		Body:        bytes.NewReader(body),
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: publishing %s: %v", domain.ErrStorage, key, err)
	}

	log.Printf("export: published %s for document %s at %s", key, doc.ID, out.Location)
	return &ExportArtifact{
		Name:        key,
		ContentType: contentType,
		Location:    out.Location,
		Body:        body,
	}, nil
}
