package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cargoscan/internal/domain"
	"cargoscan/internal/export"
)

func sampleInvoice() *domain.Document {
	return &domain.Document{
		ID:         "doc-1",
		Type:       domain.TypeInvoice,
		CapturedAt: time.Date(2023, 5, 12, 10, 30, 0, 0, time.UTC),
		ImagePath:  "/data/images/img.jpg",
		RawText:    "FACTURA F-2023-001",
		Tags:       []string{"mayo", "urgente"},
		Invoice: &domain.InvoiceFields{
			InvoiceNumber: "F-2023-001",
			IssueDate:     "2023-05-12",
			Supplier:      domain.Party{Name: "Transportes García SL", TaxID: "B12345678"},
			Client:        domain.Party{Name: "Logística Ibérica SA", TaxID: "A87654321"},
			LineItems: []domain.LineItem{
				{Description: "Transporte nacional", Quantity: 1, UnitPrice: 75, Amount: 75},
			},
			Subtotal:    75,
			TaxAmount:   15.75,
			TotalAmount: 90.75,
			Currency:    "EUR",
		},
	}
}

func TestWorkbook_Invoice(t *testing.T) {
	out, err := export.Workbook(sampleInvoice())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoice"}, f.GetSheetList())

	cell := func(ref string) string {
		v, err := f.GetCellValue("Invoice", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Document ID", cell("A1"))
	assert.Equal(t, "doc-1", cell("B1"))
	assert.Equal(t, "invoice", cell("B3"))
	assert.Equal(t, "mayo, urgente", cell("B4"))
	assert.Equal(t, "F-2023-001", cell("B6"))
	assert.Equal(t, "Transportes García SL", cell("B8"))
	assert.Equal(t, "90.75", cell("B14"))

	// Line item table follows the header block.
	assert.Equal(t, "Description", cell("A17"))
	assert.Equal(t, "Transporte nacional", cell("A18"))
	assert.Equal(t, "75", cell("D18"))
}

func TestWorkbook_DeliveryNote(t *testing.T) {
	doc := &domain.Document{
		ID:         "doc-2",
		Type:       domain.TypeDeliveryNote,
		CapturedAt: time.Now().UTC(),
		DeliveryNote: &domain.DeliveryNoteFields{
			NoteNumber:    "ALB-77",
			Date:          "2023-05-14",
			Origin:        domain.Location{Name: "Almacén Central"},
			Destination:   domain.Location{Name: "Tienda Norte"},
			Carrier:       "SEUR",
			PackageCount:  3,
			TotalWeightKg: 42.5,
			Items: []domain.DeliveryItem{
				{Description: "Palet bebidas", Quantity: 2, WeightKg: 30},
			},
		},
	}

	out, err := export.Workbook(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Delivery Note"}, f.GetSheetList())

	v, err := f.GetCellValue("Delivery Note", "B5")
	require.NoError(t, err)
	assert.Equal(t, "ALB-77", v)

	v, err = f.GetCellValue("Delivery Note", "B9")
	require.NoError(t, err)
	assert.Equal(t, "SEUR", v)
}

func TestWorkbook_WarehouseLabel(t *testing.T) {
	doc := &domain.Document{
		ID:         "doc-3",
		Type:       domain.TypeWarehouseLabel,
		CapturedAt: time.Now().UTC(),
		WarehouseLabel: &domain.WarehouseLabelFields{
			ProductCode: "SKU-0099",
			ProductName: "Aceite de oliva 5L",
			Quantity:    24,
			Unit:        "cajas",
			BatchNumber: "L-230501",
			ExpiryDate:  "2025-05-01",
			Location:    "A-03-17",
		},
	}

	out, err := export.Workbook(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Warehouse Label"}, f.GetSheetList())

	v, err := f.GetCellValue("Warehouse Label", "B5")
	require.NoError(t, err)
	assert.Equal(t, "SKU-0099", v)

	v, err = f.GetCellValue("Warehouse Label", "B11")
	require.NoError(t, err)
	assert.Equal(t, "A-03-17", v)
}
