package lib

import (
	"github.com/yeqown/go-qrcode"
)

// RenderQRCode writes the given payload as a scannable code image at
// filepath. The payload for a bus pass is the pass verification token.
func RenderQRCode(payload string, filepath string) error {
	qrc, err := qrcode.New(payload)
	if err != nil {
		return err
	}
	return qrc.Save(filepath)
}
