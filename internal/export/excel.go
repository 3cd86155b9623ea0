// Package export builds the artifacts a stored document can be handed
// off as: an Excel workbook, shareable JSON and a QR reference image.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"cargoscan/internal/domain"
)

// Workbook renders the document's structured fields into a single-sheet
// XLSX workbook and returns its bytes.
func Workbook(doc *domain.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(doc)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}

	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.pair("Document ID", doc.ID)
	w.pair("Captured At", doc.CapturedAt.Format("2006-01-02 15:04:05"))
	w.pair("Type", string(doc.Type))
	if len(doc.Tags) > 0 {
		w.pair("Tags", strings.Join(doc.Tags, ", "))
	}
	w.blank()

	switch {
	case doc.Invoice != nil:
		writeInvoice(w, doc.Invoice)
	case doc.DeliveryNote != nil:
		writeDeliveryNote(w, doc.DeliveryNote)
	case doc.WarehouseLabel != nil:
		writeWarehouseLabel(w, doc.WarehouseLabel)
	}

	if w.err != nil {
		return nil, fmt.Errorf("writing workbook: %w", w.err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(doc *domain.Document) string {
	switch doc.Type {
	case domain.TypeDeliveryNote:
		return "Delivery Note"
	case domain.TypeWarehouseLabel:
		return "Warehouse Label"
	default:
		return "Invoice"
	}
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) set(col int, v interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) pair(label string, v interface{}) {
	w.set(1, label)
	w.set(2, v)
	w.row++
}

func (w *sheetWriter) cells(vs ...interface{}) {
	for i, v := range vs {
		w.set(i+1, v)
	}
	w.row++
}

func (w *sheetWriter) blank() { w.row++ }

func writeInvoice(w *sheetWriter, inv *domain.InvoiceFields) {
	w.pair("Invoice Number", inv.InvoiceNumber)
	w.pair("Issue Date", inv.IssueDate)
	w.pair("Supplier", inv.Supplier.Name)
	w.pair("Supplier Tax ID", inv.Supplier.TaxID)
	w.pair("Client", inv.Client.Name)
	w.pair("Client Tax ID", inv.Client.TaxID)
	w.pair("Subtotal", inv.Subtotal)
	w.pair("Tax", inv.TaxAmount)
	w.pair("Total", inv.TotalAmount)
	w.pair("Currency", inv.Currency)
	w.blank()

	w.cells("Description", "Quantity", "Unit Price", "Amount")
	for _, li := range inv.LineItems {
		w.cells(li.Description, li.Quantity, li.UnitPrice, li.Amount)
	}
}

func writeDeliveryNote(w *sheetWriter, dn *domain.DeliveryNoteFields) {
	w.pair("Note Number", dn.NoteNumber)
	w.pair("Date", dn.Date)
	w.pair("Origin", dn.Origin.Name)
	w.pair("Destination", dn.Destination.Name)
	w.pair("Carrier", dn.Carrier)
	w.pair("Packages", dn.PackageCount)
	w.pair("Total Weight (kg)", dn.TotalWeightKg)
	w.blank()

	w.cells("Description", "Quantity", "Weight (kg)")
	for _, it := range dn.Items {
		w.cells(it.Description, it.Quantity, it.WeightKg)
	}
}

func writeWarehouseLabel(w *sheetWriter, wl *domain.WarehouseLabelFields) {
	w.pair("Product Code", wl.ProductCode)
	w.pair("Product Name", wl.ProductName)
	w.pair("Quantity", wl.Quantity)
	w.pair("Unit", wl.Unit)
	w.pair("Batch", wl.BatchNumber)
	w.pair("Expiry", wl.ExpiryDate)
	w.pair("Location", wl.Location)
}
