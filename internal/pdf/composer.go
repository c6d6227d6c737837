package pdf

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/nconklindev/diffcheck/internal/workspace"
)

// Legend is printed at the foot of every artifact page.
const Legend = "Legend: Yellow = Visual/Layout Diff, Red = Text removed/changed from File 1, Green = Text added/changed in File 2"

const (
	margin     = 40.0
	gutter     = 20.0
	headerY    = 30.0
	legendDrop = 20.0
)

// Composer lays out annotated page pairs side by side on landscape Letter
// pages. Page images are staged as PNG files in a workspace.
type Composer struct {
	ws    *workspace.Workspace
	doc   *fpdf.Fpdf
	pages int
}

// NewComposer returns a composer staging images in ws. The workspace must
// stay open until Save returns.
func NewComposer(ws *workspace.Workspace) *Composer {
	doc := fpdf.New("L", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(true)
	return &Composer{ws: ws, doc: doc}
}

// AddPage appends one artifact page showing left and right for page index.
func (c *Composer) AddPage(index int, left, right image.Image) error {
	leftPath, err := c.stage(fmt.Sprintf("file1_page_%d.png", index), left)
	if err != nil {
		return err
	}
	rightPath, err := c.stage(fmt.Sprintf("file2_page_%d.png", index), right)
	if err != nil {
		return err
	}

	doc := c.doc
	doc.AddPage()
	width, height := doc.GetPageSize()
	imgW := width/2 - margin - gutter
	imgH := height - 2*margin
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	doc.ImageOptions(leftPath, margin, margin, imgW, imgH, false, opts, 0, "")
	doc.ImageOptions(rightPath, width/2+gutter, margin, imgW, imgH, false, opts, 0, "")

	doc.SetFont("Helvetica", "B", 14)
	doc.Text(margin, headerY, fmt.Sprintf("File 1 - Page %d (Visual/Text Diff)", index+1))
	doc.Text(width/2+gutter, headerY, fmt.Sprintf("File 2 - Page %d (Visual/Text Diff)", index+1))
	doc.SetFont("Helvetica", "", 10)
	doc.Text(margin, height-legendDrop, Legend)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("laying out page %d: %w", index+1, err)
	}
	c.pages++
	return nil
}

func (c *Composer) stage(name string, img image.Image) (string, error) {
	f, err := c.ws.Create(name)
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("staging %s: %w", name, err)
	}
	return f.Name(), nil
}

// Pages returns the number of pages added so far.
func (c *Composer) Pages() int {
	return c.pages
}

// Save writes the artifact to path. Nothing is written when layout failed.
// A document with no compared pages still gets one page carrying the legend.
func (c *Composer) Save(path string) error {
	if c.pages == 0 {
		c.doc.AddPage()
		c.doc.SetFont("Helvetica", "", 10)
		_, height := c.doc.GetPageSize()
		c.doc.Text(margin, height-legendDrop, Legend)
	}
	if err := c.doc.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	err := workspace.WriteFileAtomic(path, func(w io.Writer) error {
		return c.doc.Output(w)
	})
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
