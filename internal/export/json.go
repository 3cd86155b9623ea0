package export

import (
	"encoding/json"
	"fmt"

	"cargoscan/internal/domain"
)

// ShareableJSON renders the document as indented JSON suitable for
// handing to other systems. The raw OCR text is omitted.
func ShareableJSON(doc *domain.Document) ([]byte, error) {
	slim := doc.Clone()
	slim.RawText = ""
	slim.ImagePath = ""

	out, err := json.MarshalIndent(slim, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}
	return out, nil
}
