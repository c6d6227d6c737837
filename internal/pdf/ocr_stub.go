//go:build !ocr

package pdf

import (
	"image"

	"github.com/nconklindev/diffcheck/internal/pagediff"
)

func recognizeWords(image.Image) ([]pagediff.Word, error) {
	return nil, ErrOCRNotEnabled
}
