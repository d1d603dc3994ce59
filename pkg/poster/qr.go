package poster

import (
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

const (
	qrBadgeSize   = 200
	qrBadgeMargin = 50
)

// placeQRBadge renders content as a QR code and pastes it in the
// bottom-right corner of the canvas. Useful for linking a poster back to
// the playlist it was generated from.
func placeQRBadge(canvas *image.NRGBA, content string) (*image.NRGBA, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "encode QR content")
	}

	badge := qr.Image(qrBadgeSize)
	bounds := canvas.Bounds()
	x := bounds.Dx() - qrBadgeSize - qrBadgeMargin
	y := bounds.Dy() - qrBadgeSize - qrBadgeMargin
	if x < 0 || y < 0 {
		// Canvas smaller than the badge; skip rather than cover everything.
		return canvas, nil
	}
	return imaging.Overlay(canvas, badge, image.Pt(x, y), 1.0), nil
}
