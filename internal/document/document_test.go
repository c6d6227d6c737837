package document

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconklindev/diffcheck/internal/pagediff"
	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/types"
)

type fakeSource struct {
	name  string
	pages []*pagediff.PageRaster
	err   error
}

func (f *fakeSource) Name() string   { return f.name }
func (f *fakeSource) PageCount() int { return len(f.pages) }

func (f *fakeSource) Page(_ context.Context, i int) (*pagediff.PageRaster, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[i], nil
}

type recordingComposer struct {
	left, right []image.Image
	saved       string
}

func (r *recordingComposer) AddPage(_ int, left, right image.Image) error {
	r.left = append(r.left, left)
	r.right = append(r.right, right)
	return nil
}

func (r *recordingComposer) Save(path string) error {
	r.saved = path
	return nil
}

func blank(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func page(img image.Image, text string, words ...pagediff.Word) *pagediff.PageRaster {
	return &pagediff.PageRaster{Image: img, Words: words, FullText: text}
}

func TestCompareTruncatesToCommonPages(t *testing.T) {
	src1 := &fakeSource{name: "a.pdf", pages: []*pagediff.PageRaster{
		page(blank(32, 32), "one"),
		page(blank(32, 32), "two"),
		page(blank(32, 32), "three"),
	}}
	src2 := &fakeSource{name: "b.pdf", pages: []*pagediff.PageRaster{
		page(blank(32, 32), "one"),
		page(blank(32, 32), "two"),
	}}
	comp := &recordingComposer{}

	res, err := Compare(context.Background(), src1, src2, comp, "out.pdf", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, types.DocumentMeta{PagesCompared: 2, SourceFiles: [2]string{"a.pdf", "b.pdf"}}, res.Meta)
	assert.Len(t, comp.left, 2)
	assert.Len(t, comp.right, 2)
	assert.Equal(t, "out.pdf", comp.saved)
	for _, p := range res.Pages {
		assert.Equal(t, [2]int{0, 0}, p.VisualBlocks)
		assert.Equal(t, [2]int{0, 0}, p.ChangedWords)
	}
}

func TestCompareHighlightsChanges(t *testing.T) {
	img2 := blank(32, 32)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img2.Pix[y*img2.Stride+x] = 0
		}
	}
	word1 := pagediff.Word{Box: image.Rect(20, 20, 30, 28), Text: "old"}
	word2 := pagediff.Word{Box: image.Rect(20, 20, 30, 28), Text: "new"}

	src1 := &fakeSource{name: "a.pdf", pages: []*pagediff.PageRaster{page(blank(32, 32), "old", word1)}}
	src2 := &fakeSource{name: "b.pdf", pages: []*pagediff.PageRaster{page(img2, "new", word2)}}
	comp := &recordingComposer{}

	res, err := Compare(context.Background(), src1, src2, comp, "out.pdf", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)

	assert.NotZero(t, res.Pages[0].VisualBlocks[0])
	assert.Equal(t, res.Pages[0].VisualBlocks[0], res.Pages[0].VisualBlocks[1])
	assert.Equal(t, [2]int{1, 1}, res.Pages[0].ChangedWords)

	left := comp.left[0].(*image.NRGBA)
	right := comp.right[0].(*image.NRGBA)
	lr, lg, lb, _ := left.At(25, 24).RGBA()
	assert.Greater(t, lr, lg, "removed word should be tinted red")
	assert.Greater(t, lr, lb)
	rr, rg, _, _ := right.At(25, 24).RGBA()
	assert.Greater(t, rg, rr, "added word should be tinted green")
}

func TestCompareErrors(t *testing.T) {
	t.Run("Page failure", func(t *testing.T) {
		boom := errors.New("render failed")
		src1 := &fakeSource{name: "a.pdf", pages: []*pagediff.PageRaster{page(blank(8, 8), "")}, err: boom}
		src2 := &fakeSource{name: "b.pdf", pages: []*pagediff.PageRaster{page(blank(8, 8), "")}}
		comp := &recordingComposer{}

		_, err := Compare(context.Background(), src1, src2, comp, "out.pdf", DefaultOptions())
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, comp.saved, "nothing may be saved after a failure")
	})

	t.Run("Abort", func(t *testing.T) {
		stop := errors.New("stop")
		src := &fakeSource{name: "a.pdf", pages: []*pagediff.PageRaster{page(blank(8, 8), "")}}
		opts := DefaultOptions()
		opts.Progress = progress.New(context.Background(), func(p int) error {
			if p > 20 {
				return stop
			}
			return nil
		})

		_, err := Compare(context.Background(), src, src, &recordingComposer{}, "out.pdf", opts)
		assert.ErrorIs(t, err, types.ErrAborted)
		assert.ErrorIs(t, err, stop)
	})
}

func TestFitTo(t *testing.T) {
	p := page(blank(10, 20), "w", pagediff.Word{Box: image.Rect(2, 4, 6, 8), Text: "w"})

	same := FitTo(p, image.Pt(10, 20))
	assert.Same(t, p, same)

	scaled := FitTo(p, image.Pt(20, 40))
	assert.Equal(t, image.Rect(0, 0, 20, 40), scaled.Image.Bounds())
	assert.Equal(t, image.Rect(4, 8, 12, 16), scaled.Words[0].Box)
	assert.Equal(t, "w", scaled.FullText)
}

func TestAnnotate(t *testing.T) {
	img := blank(16, 16)
	blocks := []pagediff.Block{{X: 0, Y: 0, Width: 8, Height: 8, Score: 1}}
	words := []pagediff.Word{{Box: image.Rect(10, 10, 40, 40), Text: "clipped"}}

	out := Annotate(img, blocks, words, color.NRGBA{R: 255, G: 255, A: 20}, color.NRGBA{R: 255, A: 30})

	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(12, 2), "untouched pixel")
	tinted := out.NRGBAAt(2, 2)
	assert.Less(t, tinted.B, uint8(255), "block should lower blue")
	assert.Equal(t, uint8(255), tinted.R)
	red := out.NRGBAAt(15, 15)
	assert.Less(t, red.G, uint8(255))
	assert.Equal(t, uint8(255), red.A)
	assert.Equal(t, uint8(255), img.Pix[0], "input must not be modified")
}
