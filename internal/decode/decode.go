// Package decode reads the text of a QR symbol from a single image frame.
package decode

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNotFound is returned when a frame holds no readable symbol. Its
// message carries the marker scanners use to tell an empty frame apart
// from a real failure.
var ErrNotFound = errors.New("decode: No MultiFormat Readers were able to detect the code")

var hints = map[gozxing.DecodeHintType]interface{}{
	gozxing.DecodeHintType_TRY_HARDER: true,
}

// Frame decodes the first QR symbol found in img.
func Frame(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", ErrNotFound
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		// Not found, checksum and format failures all mean this frame had
		// nothing readable.
		var re gozxing.ReaderException
		if errors.As(err, &re) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("decode frame: %w", err)
	}

	return result.GetText(), nil
}
