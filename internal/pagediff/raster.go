// Package pagediff finds visual and textual differences between two
// rendered pages.
package pagediff

import (
	"image"

	"golang.org/x/image/draw"
)

// Word is a word and its bounding box in raster pixel coordinates.
type Word struct {
	Box  image.Rectangle
	Text string
}

// PageRaster is one rendered page, its positioned words and its full
// extracted text.
type PageRaster struct {
	Image    image.Image
	Words    []Word
	FullText string
}

// Block is a flagged region of a page. Score is the mean dissimilarity in
// [0,1] over the region.
type Block struct {
	X, Y          int
	Width, Height int
	Score         float64
}

// Rect returns the block as a rectangle.
func (b Block) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// WhiteThreshold is the luminance above which a pixel counts as page
// background.
const WhiteThreshold = 220

// ToGray converts img to an 8-bit grayscale raster with origin (0,0).
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// SuppressNearWhite returns a copy of g with every pixel brighter than
// WhiteThreshold set to pure white, removing scan noise and light
// watermarks.
func SuppressNearWhite(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		src := g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)]
		dst := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i, v := range src {
			if v > WhiteThreshold {
				v = 0xff
			}
			dst[i] = v
		}
	}
	return out
}
