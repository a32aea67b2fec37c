package extract

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements OCR using the Tesseract engine via gosseract.
type Tesseract struct {
	Languages []string
}

// Recognize runs OCR over the image bytes.
func (t Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", err
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return client.Text()
}

var _ OCR = Tesseract{}
