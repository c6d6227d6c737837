package pagediff

import (
	"errors"
	"fmt"
	"image"
)

const (
	ssimWindow = 7
	ssimK1     = 0.01
	ssimK2     = 0.03
	dataRange  = 255.0
)

// ErrSizeMismatch is returned when two rasters differ in dimensions.
var ErrSizeMismatch = errors.New("rasters must have equal dimensions")

// Diff flags every blockSize×blockSize block of a whose mean structural
// dissimilarity against b exceeds threshold. Blocks on the right and bottom
// edges may be partial. Both rasters are cleaned of near-white pixels first.
func Diff(a, b *image.Gray, blockSize int, threshold float64) ([]Block, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("block size must be positive, got %d", blockSize)
	}
	if a.Bounds().Size() != b.Bounds().Size() {
		return nil, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, a.Bounds().Size(), b.Bounds().Size())
	}

	dis := DissimilarityMap(SuppressNearWhite(a), SuppressNearWhite(b))
	w, h := a.Bounds().Dx(), a.Bounds().Dy()

	var blocks []Block
	for y := 0; y < h; y += blockSize {
		bh := min(blockSize, h-y)
		for x := 0; x < w; x += blockSize {
			bw := min(blockSize, w-x)
			sum := 0.0
			for yy := y; yy < y+bh; yy++ {
				row := dis[yy*w : yy*w+w]
				for xx := x; xx < x+bw; xx++ {
					sum += row[xx]
				}
			}
			mean := sum / float64(bw*bh)
			if mean > threshold {
				blocks = append(blocks, Block{X: x, Y: y, Width: bw, Height: bh, Score: mean})
			}
		}
	}
	return blocks, nil
}

// DissimilarityMap returns 1-SSIM per pixel, row-major, for two equally
// sized rasters. SSIM uses a 7×7 uniform window with reflected borders and
// sample covariance.
func DissimilarityMap(a, b *image.Gray) []float64 {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	n := w * h

	x := make([]float64, n)
	y := make([]float64, n)
	xx := make([]float64, n)
	yy := make([]float64, n)
	xy := make([]float64, n)
	for row := 0; row < h; row++ {
		ra, rb := a.Bounds().Min, b.Bounds().Min
		pa := a.Pix[a.PixOffset(ra.X, ra.Y+row):]
		pb := b.Pix[b.PixOffset(rb.X, rb.Y+row):]
		for col := 0; col < w; col++ {
			i := row*w + col
			va, vb := float64(pa[col]), float64(pb[col])
			x[i], y[i] = va, vb
			xx[i], yy[i], xy[i] = va*va, vb*vb, va*vb
		}
	}

	ux := boxFilter(x, w, h, ssimWindow)
	uy := boxFilter(y, w, h, ssimWindow)
	uxx := boxFilter(xx, w, h, ssimWindow)
	uyy := boxFilter(yy, w, h, ssimWindow)
	uxy := boxFilter(xy, w, h, ssimWindow)

	np := float64(ssimWindow * ssimWindow)
	covNorm := np / (np - 1)
	c1 := (ssimK1 * dataRange) * (ssimK1 * dataRange)
	c2 := (ssimK2 * dataRange) * (ssimK2 * dataRange)

	out := make([]float64, n)
	for i := range out {
		vx := covNorm * (uxx[i] - ux[i]*ux[i])
		vy := covNorm * (uyy[i] - uy[i]*uy[i])
		vxy := covNorm * (uxy[i] - ux[i]*uy[i])

		num := (2*ux[i]*uy[i] + c1) * (2*vxy + c2)
		den := (ux[i]*ux[i] + uy[i]*uy[i] + c1) * (vx + vy + c2)
		s := num / den

		d := 1 - s
		if d < 0 {
			d = 0
		}
		if d > 1 {
			d = 1
		}
		out[i] = d
	}
	return out
}

// boxFilter is a separable mean filter of odd size with reflected borders
// (d c b a | a b c d | d c b a).
func boxFilter(src []float64, w, h, size int) []float64 {
	r := size / 2
	tmp := make([]float64, len(src))
	for row := 0; row < h; row++ {
		line := src[row*w : row*w+w]
		for col := 0; col < w; col++ {
			sum := 0.0
			for k := -r; k <= r; k++ {
				sum += line[reflect(col+k, w)]
			}
			tmp[row*w+col] = sum / float64(size)
		}
	}

	out := make([]float64, len(src))
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			sum := 0.0
			for k := -r; k <= r; k++ {
				sum += tmp[reflect(row+k, h)*w+col]
			}
			out[row*w+col] = sum / float64(size)
		}
	}
	return out
}

func reflect(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}
