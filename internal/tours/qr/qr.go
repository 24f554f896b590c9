package qr

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Encode renders content as a PNG QR code of size x size pixels.
func Encode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr content is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
