package share

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// QRGenerator encodes absolute detail-page URLs as PNG QR codes.
type QRGenerator struct {
	baseURL string
	size    int
}

func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: strings.TrimRight(baseURL, "/"), size: defaultSize}
}

// URL returns the absolute address of path on the public site.
func (q *QRGenerator) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return q.baseURL + path
}

func (q *QRGenerator) VenuePNG(id int64) ([]byte, error) {
	return q.encode(fmt.Sprintf("/venues/%d", id))
}

func (q *QRGenerator) ArtistPNG(id int64) ([]byte, error) {
	return q.encode(fmt.Sprintf("/artists/%d", id))
}

func (q *QRGenerator) encode(path string) ([]byte, error) {
	png, err := qrcode.Encode(q.URL(path), qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", path, err)
	}
	return png, nil
}
