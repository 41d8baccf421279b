package export

import (
	"context"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/mab8192/tcgprint/pkg/compose"
	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/units"
)

// PDFExporter renders each page image full-bleed onto a PDF page of
// the matching physical size.
type PDFExporter struct {
	DPI int
}

// NewPDFExporter returns a PDF exporter for pages rendered at dpi.
func NewPDFExporter(dpi int) *PDFExporter {
	return &PDFExporter{DPI: dpi}
}

// Export implements Exporter.
func (e *PDFExporter) Export(ctx context.Context, w io.Writer, pages []*compose.Page, meta Metadata) error {
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeExport, "no pages to export")
	}
	if e.DPI <= 0 {
		return errors.New(errors.ErrCodeExport, "invalid export resolution %d dpi", e.DPI)
	}

	var writer *pdf.PDF
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeCanceled, err, "export page %d", i+1)
		}
		if page == nil || page.Image == nil {
			return errors.New(errors.ErrCodeExport, "page %d has no image", i+1)
		}

		b := page.Image.Bounds()
		width := units.ToMillimeters(b.Dx(), e.DPI)
		height := units.ToMillimeters(b.Dy(), e.DPI)

		if writer == nil {
			writer = pdf.New(w, width, height, nil)
			writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
		} else {
			writer.NewPage(width, height)
		}

		c := canvas.New(width, height)
		dc := canvas.NewContext(c)
		dc.DrawImage(0, 0, page.Image, canvas.DPMM(float64(b.Dx())/width))
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "finish pdf")
	}
	return nil
}
