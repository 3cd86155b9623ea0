// Package extractor holds the cloud field-extraction gateway: schema
// prompts, response decoding, the provider factory registry and the
// ordered fallback chain. Concrete providers live in subpackages.
package extractor

import "cargoscan/internal/domain"

const promptHeader = `You are a logistics document data extraction assistant. Analyze the OCR text below and extract ALL data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object.
- If a field is not present in the text, use empty string for text, 0 for numbers.
- Amounts are plain numbers without currency symbols or thousands separators.
- The text may mix Spanish and English labels; map both onto the schema.

The JSON object must follow this schema:
`

const invoiceSchema = `{
  "invoice_number": "",
  "issue_date": "",
  "supplier": {"name": "", "tax_id": "", "address": ""},
  "client": {"name": "", "tax_id": "", "address": ""},
  "line_items": [
    {"description": "", "quantity": 0, "unit_price": 0, "amount": 0}
  ],
  "subtotal": 0,
  "tax_amount": 0,
  "total_amount": 0,
  "currency": ""
}`

const deliveryNoteSchema = `{
  "note_number": "",
  "date": "",
  "origin": {"name": "", "address": ""},
  "destination": {"name": "", "address": ""},
  "items": [
    {"description": "", "quantity": 0, "weight_kg": 0}
  ],
  "package_count": 0,
  "total_weight_kg": 0,
  "carrier": ""
}`

const warehouseLabelSchema = `{
  "product_code": "",
  "product_name": "",
  "quantity": 0,
  "unit": "",
  "batch_number": "",
  "expiry_date": "",
  "location": ""
}`

// BuildPrompt returns the extraction prompt for the given variant.
// Unknown types take the invoice schema, mirroring the orchestrator's
// default routing.
func BuildPrompt(docType domain.DocumentType) string {
	switch docType {
	case domain.TypeDeliveryNote:
		return promptHeader + deliveryNoteSchema
	case domain.TypeWarehouseLabel:
		return promptHeader + warehouseLabelSchema
	default:
		return promptHeader + invoiceSchema
	}
}
