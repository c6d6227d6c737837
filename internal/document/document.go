// Package document compares two paginated documents page by page and hands
// annotated side-by-side pages to a Composer.
package document

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/nconklindev/diffcheck/internal/pagediff"
	"github.com/nconklindev/diffcheck/internal/progress"
	"github.com/nconklindev/diffcheck/internal/types"
)

// PageSource yields rendered pages of one document.
type PageSource interface {
	Name() string
	PageCount() int
	Page(ctx context.Context, index int) (*pagediff.PageRaster, error)
}

// Composer assembles annotated page pairs into one artifact.
type Composer interface {
	AddPage(index int, left, right image.Image) error
	Save(path string) error
}

// Options configures a document comparison.
type Options struct {
	BlockSize    int
	Threshold    float64
	VisualColor  color.NRGBA
	RemovedColor color.NRGBA
	AddedColor   color.NRGBA
	Progress     *progress.Tracker
	Logger       *log.Logger
}

// DefaultOptions returns translucent yellow for layout changes, red for
// text missing from file 2 and green for text new in file 2.
func DefaultOptions() Options {
	return Options{
		BlockSize:    16,
		Threshold:    0.6,
		VisualColor:  color.NRGBA{R: 255, G: 255, A: 20},
		RemovedColor: color.NRGBA{R: 255, A: 30},
		AddedColor:   color.NRGBA{G: 255, A: 30},
	}
}

// PageSummary counts what was flagged on one page pair.
type PageSummary struct {
	Index        int
	VisualBlocks [2]int
	ChangedWords [2]int
}

// Result describes a finished comparison.
type Result struct {
	Meta  types.DocumentMeta
	Pages []PageSummary
}

// Compare diffs every page index both documents share, composes the
// annotated pairs and saves the artifact to outputPath. Extra pages in the
// longer document are ignored.
func Compare(ctx context.Context, src1, src2 PageSource, comp Composer, outputPath string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	track := opts.Progress
	if track == nil {
		track = progress.New(ctx, nil)
	}

	if err := track.Report(20); err != nil {
		return nil, err
	}

	pages := min(src1.PageCount(), src2.PageCount())
	if src1.PageCount() != src2.PageCount() {
		logger.Info("page counts differ, comparing common pages",
			"file1", src1.PageCount(), "file2", src2.PageCount(), "compared", pages)
	}
	if err := track.Report(30); err != nil {
		return nil, err
	}

	res := &Result{
		Meta: types.DocumentMeta{
			PagesCompared: pages,
			SourceFiles:   [2]string{src1.Name(), src2.Name()},
		},
	}

	for i := 0; i < pages; i++ {
		if err := track.Report(progress.Scale(30, 50, i, pages)); err != nil {
			return nil, err
		}
		p1, err := src1.Page(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i+1, src1.Name(), err)
		}
		p2, err := src2.Page(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i+1, src2.Name(), err)
		}

		left, right, summary, err := comparePage(i, p1, p2, opts, track, pages)
		if err != nil {
			return nil, err
		}
		logger.Debug("compared page", "page", i+1,
			"blocks", summary.VisualBlocks, "words", summary.ChangedWords)

		if err := comp.AddPage(i, left, right); err != nil {
			return nil, fmt.Errorf("composing page %d: %w", i+1, err)
		}
		res.Pages = append(res.Pages, summary)
	}

	if err := comp.Save(outputPath); err != nil {
		return nil, err
	}
	if err := track.Report(95); err != nil {
		return nil, err
	}
	return res, nil
}

func comparePage(i int, p1, p2 *pagediff.PageRaster, opts Options, track *progress.Tracker, pages int) (image.Image, image.Image, PageSummary, error) {
	summary := PageSummary{Index: i}

	p2 = FitTo(p2, p1.Image.Bounds().Size())
	g1, g2 := pagediff.ToGray(p1.Image), pagediff.ToGray(p2.Image)

	blocks1, err := pagediff.Diff(g1, g2, opts.BlockSize, opts.Threshold)
	if err != nil {
		return nil, nil, summary, fmt.Errorf("visual diff of page %d: %w", i+1, err)
	}
	blocks2, err := pagediff.Diff(g2, g1, opts.BlockSize, opts.Threshold)
	if err != nil {
		return nil, nil, summary, fmt.Errorf("visual diff of page %d: %w", i+1, err)
	}

	if err := track.Report(progress.Scale(50, 70, i, pages)); err != nil {
		return nil, nil, summary, err
	}

	words1 := pagediff.ChangedWords(p1.Words, p2.FullText)
	words2 := pagediff.ChangedWords(p2.Words, p1.FullText)

	summary.VisualBlocks = [2]int{len(blocks1), len(blocks2)}
	summary.ChangedWords = [2]int{len(words1), len(words2)}

	left := Annotate(p1.Image, blocks1, words1, opts.VisualColor, opts.RemovedColor)
	right := Annotate(p2.Image, blocks2, words2, opts.VisualColor, opts.AddedColor)
	return left, right, summary, nil
}

// FitTo scales a page raster and its word boxes to size. It returns p
// unchanged when the size already matches.
func FitTo(p *pagediff.PageRaster, size image.Point) *pagediff.PageRaster {
	b := p.Image.Bounds()
	if b.Size() == size || b.Dx() == 0 || b.Dy() == 0 {
		return p
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), p.Image, b, draw.Src, nil)

	sx := float64(size.X) / float64(b.Dx())
	sy := float64(size.Y) / float64(b.Dy())
	words := make([]pagediff.Word, len(p.Words))
	for i, w := range p.Words {
		r := w.Box.Sub(b.Min)
		words[i] = pagediff.Word{
			Text: w.Text,
			Box: image.Rect(
				int(float64(r.Min.X)*sx), int(float64(r.Min.Y)*sy),
				int(float64(r.Max.X)*sx), int(float64(r.Max.Y)*sy),
			),
		}
	}
	return &pagediff.PageRaster{Image: dst, Words: words, FullText: p.FullText}
}

// Annotate returns a copy of img with flagged blocks tinted in visual and
// changed words tinted in text, words drawn over blocks.
func Annotate(img image.Image, blocks []pagediff.Block, words []pagediff.Word, visual, text color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	tintVisual := &image.Uniform{C: visual}
	for _, blk := range blocks {
		draw.Draw(out, blk.Rect().Intersect(out.Bounds()), tintVisual, image.Point{}, draw.Over)
	}
	tintText := &image.Uniform{C: text}
	for _, w := range words {
		draw.Draw(out, w.Box.Intersect(out.Bounds()), tintText, image.Point{}, draw.Over)
	}
	return out
}
