// Package pdf renders PDF pages into rasters with positioned words, and
// composes annotated page pairs into a side-by-side PDF.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/go-fitz"
	"github.com/tsawler/tabula/reader"

	"github.com/nconklindev/diffcheck/internal/pagediff"
)

// ErrOCRNotEnabled is returned by the OCR fallback when the binary was built
// without the ocr tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// pointsPerInch is the PDF user-space resolution.
const pointsPerInch = 72.0

// ProviderOptions configures page rendering.
type ProviderOptions struct {
	// DPI is the render resolution. At 72 one pixel is one PDF point.
	DPI float64
	// OCR recognizes words with tesseract on pages without a text layer.
	OCR    bool
	Logger *log.Logger
}

// Provider yields rendered pages of one PDF. It is not safe for concurrent
// use.
type Provider struct {
	path   string
	doc    *fitz.Document
	text   *reader.Reader
	opts   ProviderOptions
	logger *log.Logger
}

// Open opens path for rendering. Word positions come from the PDF's text
// layer; when that cannot be parsed pages still render, only without word
// boxes.
func Open(path string, opts ProviderOptions) (*Provider, error) {
	if opts.DPI <= 0 {
		opts.DPI = pointsPerInch
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	p := &Provider{path: path, doc: doc, opts: opts, logger: logger}
	if r, err := reader.Open(path); err != nil {
		logger.Warn("text layer unreadable, words unavailable", "file", path, "err", err)
	} else {
		p.text = r
	}
	return p, nil
}

// Name returns the file's base name.
func (p *Provider) Name() string {
	return filepath.Base(p.path)
}

func (p *Provider) PageCount() int {
	return p.doc.NumPage()
}

// Page renders page index (0-based).
func (p *Provider) Page(ctx context.Context, index int) (*pagediff.PageRaster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := p.doc.ImageDPI(index, p.opts.DPI)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", index+1, err)
	}
	fullText, err := p.doc.Text(index)
	if err != nil {
		return nil, fmt.Errorf("extracting text of page %d: %w", index+1, err)
	}

	words := p.words(index)
	if len(words) == 0 && p.opts.OCR {
		ocrWords, err := recognizeWords(img)
		switch {
		case errors.Is(err, ErrOCRNotEnabled):
			p.logger.Debug("ocr fallback skipped", "err", err)
		case err != nil:
			p.logger.Warn("ocr fallback failed", "file", p.Name(), "page", index+1, "err", err)
		default:
			words = ocrWords
		}
	}

	return &pagediff.PageRaster{Image: img, Words: words, FullText: fullText}, nil
}

func (p *Provider) words(index int) []pagediff.Word {
	if p.text == nil {
		return nil
	}
	page, err := p.text.GetPage(index)
	if err != nil {
		p.logger.Warn("reading page", "file", p.Name(), "page", index+1, "err", err)
		return nil
	}
	box, err := page.MediaBox()
	if err != nil || len(box) < 4 {
		p.logger.Warn("page has no media box", "file", p.Name(), "page", index+1, "err", err)
		return nil
	}
	frags, err := p.text.ExtractTextFragments(page)
	if err != nil {
		p.logger.Warn("extracting words", "file", p.Name(), "page", index+1, "err", err)
		return nil
	}
	return FragmentWords(frags, MediaBox{box[0], box[1], box[2], box[3]}, p.opts.DPI/pointsPerInch)
}

// Close releases the document.
func (p *Provider) Close() error {
	var textErr error
	if p.text != nil {
		textErr = p.text.Close()
	}
	return errors.Join(p.doc.Close(), textErr)
}
