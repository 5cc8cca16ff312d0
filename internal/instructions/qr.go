package instructions

import (
	qrcode "github.com/skip2/go-qrcode"

	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

const qrSizePixels = 512

// EncodeQR renders the UPI URI as a PNG. Medium error correction keeps the
// code scannable on low-end phone screens.
func EncodeQR(uri string) ([]byte, error) {
	if uri == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qr content required")
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, qrSizePixels)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding qr code")
	}
	return png, nil
}
