package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"cargoscan/internal/domain"
)

// DecodeDocument parses a model's JSON answer into the requested variant
// and builds the classified document around it. Every decode failure is
// tagged domain.ErrUnparsableResponse so callers can branch on the tag.
func DecodeDocument(docType domain.DocumentType, answer, rawText, imagePath string) (*domain.Document, error) {
	payload := []byte(StripCodeFences(answer))

	if docType == domain.TypeUnknown {
		docType = domain.TypeInvoice
	}

	doc := domain.NewDocument(docType, imagePath, rawText)
	var err error
	switch docType {
	case domain.TypeInvoice:
		var fields domain.InvoiceFields
		err = json.Unmarshal(payload, &fields)
		doc.Invoice = &fields
	case domain.TypeDeliveryNote:
		var fields domain.DeliveryNoteFields
		err = json.Unmarshal(payload, &fields)
		doc.DeliveryNote = &fields
	case domain.TypeWarehouseLabel:
		var fields domain.WarehouseLabelFields
		err = json.Unmarshal(payload, &fields)
		doc.WarehouseLabel = &fields
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", domain.ErrUnparsableResponse, err, truncate(answer, 300))
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableResponse, err)
	}
	return doc, nil
}

// StripCodeFences tolerates models that wrap JSON in markdown fences
// despite the prompt.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
