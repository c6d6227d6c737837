//go:build ocr

package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/nconklindev/diffcheck/internal/pagediff"
)

// recognizeWords runs tesseract over a rendered page and returns its words
// in raster coordinates.
func recognizeWords(img image.Image) ([]pagediff.Word, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding page for ocr: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}

	origin := img.Bounds().Min
	words := make([]pagediff.Word, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		words = append(words, pagediff.Word{Box: b.Box.Sub(origin), Text: b.Word})
	}
	return words, nil
}
