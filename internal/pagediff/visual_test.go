package pagediff

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func pattern(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8((x*37 + y*11) % 200)})
		}
	}
	return g
}

func TestDiffIdentical(t *testing.T) {
	a := pattern(40, 24)
	b := pattern(40, 24)

	for _, threshold := range []float64{0.001, 0.1, 0.6} {
		blocks, err := Diff(a, b, 16, threshold)
		require.NoError(t, err)
		assert.Empty(t, blocks, "threshold %v", threshold)
	}
}

func TestDiffDistinct(t *testing.T) {
	a := uniform(40, 24, 0)
	b := uniform(40, 24, 255)

	blocks, err := Diff(a, b, 16, 0.5)
	require.NoError(t, err)
	require.Len(t, blocks, 6)

	assert.Equal(t, Block{X: 32, Y: 16, Width: 8, Height: 8, Score: blocks[5].Score}, blocks[5])
	for _, blk := range blocks {
		assert.Greater(t, blk.Score, 0.99)
		assert.LessOrEqual(t, blk.Score, 1.0)
	}
}

func TestDiffLocalChange(t *testing.T) {
	a := uniform(64, 64, 255)
	b := uniform(64, 64, 255)
	for y := 20; y < 28; y++ {
		for x := 36; x < 44; x++ {
			b.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	blocks, err := Diff(a, b, 16, 0.3)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	for _, blk := range blocks {
		assert.True(t, blk.Rect().Overlaps(image.Rect(29, 13, 51, 35)), "unexpected block %+v", blk)
	}
}

func TestDiffNearWhiteIgnored(t *testing.T) {
	a := uniform(32, 32, 255)
	b := uniform(32, 32, 230)

	blocks, err := Diff(a, b, 16, 0.01)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestDiffErrors(t *testing.T) {
	_, err := Diff(uniform(10, 10, 0), uniform(10, 11, 0), 16, 0.5)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Diff(uniform(10, 10, 0), uniform(10, 10, 0), 0, 0.5)
	assert.Error(t, err)
}

func TestSuppressNearWhite(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.Pix = []uint8{220, 221, 10}

	out := SuppressNearWhite(g)
	assert.Equal(t, []uint8{220, 255, 10}, out.Pix)
	assert.Equal(t, []uint8{220, 221, 10}, g.Pix, "input must not be modified")
}

func TestToGray(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.White)
	src.Set(6, 5, color.Black)

	g := ToGray(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), g.Bounds())
	assert.Equal(t, []uint8{255, 0}, g.Pix)
}

func TestReflect(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{-1, 4, 0},
		{-3, 4, 2},
		{4, 4, 3},
		{6, 4, 1},
		{2, 4, 2},
		{-2, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reflect(tt.i, tt.n), "reflect(%d, %d)", tt.i, tt.n)
	}
}
