package export

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"cargoscan/internal/domain"
)

const qrSize = 512

// QRReference encodes the document's canonical URI as a PNG QR code so a
// scanner at the receiving end can pull the record up.
func QRReference(doc *domain.Document) ([]byte, error) {
	png, err := qrcode.Encode(DocumentURI(doc.ID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr for document %s: %w", doc.ID, err)
	}
	return png, nil
}

// DocumentURI is the scheme encoded into QR artifacts.
func DocumentURI(id string) string {
	return "cargoscan://documents/" + id
}
