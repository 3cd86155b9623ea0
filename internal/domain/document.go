package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Party identifies one side of a commercial document.
type Party struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// Location identifies an origin or destination on a delivery note.
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// LineItem is a single billed row on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// DeliveryItem is a single shipped row on a delivery note.
type DeliveryItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	WeightKg    float64 `json:"weight_kg"`
}

// InvoiceFields holds the structured fields of an invoice.
type InvoiceFields struct {
	InvoiceNumber string     `json:"invoice_number"`
	IssueDate     string     `json:"issue_date"`
	Supplier      Party      `json:"supplier"`
	Client        Party      `json:"client"`
	LineItems     []LineItem `json:"line_items"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	TotalAmount   float64    `json:"total_amount"`
	Currency      string     `json:"currency"`
}

// DeliveryNoteFields holds the structured fields of a delivery note.
type DeliveryNoteFields struct {
	NoteNumber    string         `json:"note_number"`
	Date          string         `json:"date"`
	Origin        Location       `json:"origin"`
	Destination   Location       `json:"destination"`
	Items         []DeliveryItem `json:"items"`
	PackageCount  int            `json:"package_count"`
	TotalWeightKg float64        `json:"total_weight_kg"`
	Carrier       string         `json:"carrier"`
}

// WarehouseLabelFields holds the structured fields of a warehouse label.
type WarehouseLabelFields struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	BatchNumber string  `json:"batch_number"`
	ExpiryDate  string  `json:"expiry_date"`
	Location    string  `json:"location"`
}

// Document is one classified logistics record. Type is the explicit
// variant discriminator written alongside every serialized body; exactly
// one of the variant payloads must be set and must match Type.
type Document struct {
	ID         string       `json:"id"`
	Type       DocumentType `json:"type"`
	CapturedAt time.Time    `json:"captured_at"`
	ImagePath  string       `json:"image_path"`
	RawText    string       `json:"raw_text"`
	Tags       []string     `json:"tags,omitempty"`
	Starred    bool         `json:"starred"`

	Invoice        *InvoiceFields        `json:"invoice,omitempty"`
	DeliveryNote   *DeliveryNoteFields   `json:"delivery_note,omitempty"`
	WarehouseLabel *WarehouseLabelFields `json:"warehouse_label,omitempty"`
}

// NewDocument allocates an identifier and capture timestamp for a freshly
// classified document. The caller fills in the variant payload.
func NewDocument(docType DocumentType, imagePath, rawText string) *Document {
	return &Document{
		ID:         uuid.New().String(),
		Type:       docType,
		CapturedAt: time.Now().UTC(),
		ImagePath:  imagePath,
		RawText:    rawText,
	}
}

// Validate checks the single-variant invariant and non-negative totals.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	if !ValidDocumentTypes[d.Type] {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDocument, d.Type)
	}

	set := 0
	if d.Invoice != nil {
		set++
	}
	if d.DeliveryNote != nil {
		set++
	}
	if d.WarehouseLabel != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: expected exactly one variant payload, got %d", ErrInvalidDocument, set)
	}

	switch d.Type {
	case TypeInvoice:
		if d.Invoice == nil {
			return fmt.Errorf("%w: type %q without matching payload", ErrInvalidDocument, d.Type)
		}
		if d.Invoice.TotalAmount < 0 || d.Invoice.Subtotal < 0 || d.Invoice.TaxAmount < 0 {
			return fmt.Errorf("%w: negative invoice totals", ErrInvalidDocument)
		}
	case TypeDeliveryNote:
		if d.DeliveryNote == nil {
			return fmt.Errorf("%w: type %q without matching payload", ErrInvalidDocument, d.Type)
		}
		if d.DeliveryNote.PackageCount < 0 || d.DeliveryNote.TotalWeightKg < 0 {
			return fmt.Errorf("%w: negative delivery totals", ErrInvalidDocument)
		}
	case TypeWarehouseLabel:
		if d.WarehouseLabel == nil {
			return fmt.Errorf("%w: type %q without matching payload", ErrInvalidDocument, d.Type)
		}
		if d.WarehouseLabel.Quantity < 0 {
			return fmt.Errorf("%w: negative label quantity", ErrInvalidDocument)
		}
	}
	return nil
}

// SearchText returns the lowercase blob of type-specific searchable fields
// (identifiers, party names, item descriptions) used by store queries.
func (d *Document) SearchText() string {
	var parts []string
	switch {
	case d.Invoice != nil:
		inv := d.Invoice
		parts = append(parts, inv.InvoiceNumber, inv.Supplier.Name, inv.Supplier.TaxID, inv.Client.Name, inv.Client.TaxID)
		for _, li := range inv.LineItems {
			parts = append(parts, li.Description)
		}
	case d.DeliveryNote != nil:
		dn := d.DeliveryNote
		parts = append(parts, dn.NoteNumber, dn.Origin.Name, dn.Destination.Name, dn.Carrier)
		for _, it := range dn.Items {
			parts = append(parts, it.Description)
		}
	case d.WarehouseLabel != nil:
		wl := d.WarehouseLabel
		parts = append(parts, wl.ProductCode, wl.ProductName, wl.BatchNumber, wl.Location)
	}
	parts = append(parts, d.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ExportBaseName derives the default artifact filename for the document.
func (d *Document) ExportBaseName() string {
	switch {
	case d.Invoice != nil && d.Invoice.InvoiceNumber != "":
		return "Invoice_" + sanitizeName(d.Invoice.InvoiceNumber)
	case d.DeliveryNote != nil && d.DeliveryNote.NoteNumber != "":
		return "DeliveryNote_" + sanitizeName(d.DeliveryNote.NoteNumber)
	case d.WarehouseLabel != nil && d.WarehouseLabel.ProductCode != "":
		return "Label_" + sanitizeName(d.WarehouseLabel.ProductCode)
	default:
		return "Document_" + d.ID
	}
}

// Clone returns a deep copy so stored documents stay immutable when
// callers mutate the result.
func (d *Document) Clone() *Document {
	cp := *d
	if d.Tags != nil {
		cp.Tags = append([]string(nil), d.Tags...)
	}
	if d.Invoice != nil {
		inv := *d.Invoice
		inv.LineItems = append([]LineItem(nil), d.Invoice.LineItems...)
		cp.Invoice = &inv
	}
	if d.DeliveryNote != nil {
		dn := *d.DeliveryNote
		dn.Items = append([]DeliveryItem(nil), d.DeliveryNote.Items...)
		cp.DeliveryNote = &dn
	}
	if d.WarehouseLabel != nil {
		wl := *d.WarehouseLabel
		cp.WarehouseLabel = &wl
	}
	return &cp
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
}
