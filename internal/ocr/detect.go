package ocr

import (
	"strings"

	"cargoscan/internal/domain"
)

// Keyword tables for document-type sniffing. Spanish terms first since
// that is the dominant capture language, English fallbacks alongside.
var (
	invoiceKeywords = []string{
		"factura", "invoice", "iva", "vat", "total", "subtotal",
		"importe", "base imponible", "proveedor", "supplier",
	}
	deliveryNoteKeywords = []string{
		"albarán", "albaran", "delivery note", "entrega", "origen",
		"destino", "bultos", "transportista", "carrier", "shipment",
	}
	warehouseLabelKeywords = []string{
		"lote", "batch", "caducidad", "expiry", "sku", "ubicación",
		"ubicacion", "código de producto", "product code", "palet", "pallet",
	}
)

// DetectDocumentType classifies raw OCR text by counting keyword hits per
// variant. It returns domain.TypeUnknown instead of failing when nothing
// matches; ties resolve in invoice, delivery note, label order.
func DetectDocumentType(text string) domain.DocumentType {
	lower := strings.ToLower(text)

	scores := []struct {
		docType  domain.DocumentType
		keywords []string
	}{
		{domain.TypeInvoice, invoiceKeywords},
		{domain.TypeDeliveryNote, deliveryNoteKeywords},
		{domain.TypeWarehouseLabel, warehouseLabelKeywords},
	}

	best := domain.TypeUnknown
	bestScore := 0
	for _, s := range scores {
		score := 0
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = s.docType
			bestScore = score
		}
	}
	return best
}
