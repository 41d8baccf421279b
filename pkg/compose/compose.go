package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/layout"
	"github.com/mab8192/tcgprint/pkg/observability"
	"github.com/mab8192/tcgprint/pkg/source"
)

// Page is one composited sheet. It must not be modified once returned.
type Page struct {
	// Index is the zero-based page number within the run.
	Index int
	// Image is the opaque page canvas, PageWidth x PageHeight pixels.
	Image *image.NRGBA
	// Failures lists the cells left blank on this page.
	Failures []Failure
}

// Failure records an image that could not be placed.
type Failure struct {
	Cell int    `json:"cell"`
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("cell %d (%s): %v", f.Cell, f.Path, f.Err)
}

// Compositor renders batches of images into pages.
type Compositor struct {
	Loader TileLoader
	Logger *log.Logger
}

// New returns a Compositor. A nil loader decodes from disk without caching.
func New(loader TileLoader, logger *log.Logger) *Compositor {
	if loader == nil {
		loader = DecodeLoader{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compositor{Loader: loader, Logger: logger}
}

// RenderPage draws batch onto a new white page. Image i of the batch lands
// at g.Cell(i). Images that fail to load leave their cell white and are
// reported in Page.Failures.
func (c *Compositor) RenderPage(ctx context.Context, index int, batch []source.Image, g layout.Geometry) (*Page, error) {
	if len(batch) > g.Capacity {
		return nil, errors.New(errors.ErrCodeInternal, "batch of %d images exceeds page capacity %d", len(batch), g.Capacity)
	}

	start := time.Now()
	page := &Page{
		Index: index,
		Image: imaging.New(g.PageWidth, g.PageHeight, color.White),
	}

	for i, img := range batch {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "render page %d", index+1)
		}

		tile, err := c.load(ctx, img, g.CardWidth, g.CardHeight)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Wrap(errors.ErrCodeCanceled, ctxErr, "render page %d", index+1)
			}
			c.Logger.Warn("leaving cell blank", "page", index+1, "cell", i, "path", img.Path, "err", err)
			page.Failures = append(page.Failures, Failure{Cell: i, Path: img.Path, Err: err})
			continue
		}

		x, y := g.Cell(i)
		r := image.Rect(x, y, x+g.CardWidth, y+g.CardHeight)
		draw.Draw(page.Image, r, tile, tile.Bounds().Min, draw.Src)
	}

	observability.Pipeline().OnPageComplete(ctx, index, len(batch), len(page.Failures), time.Since(start))
	return page, nil
}

// load runs the loader and converts a decoder panic into an error so one
// bad file cannot take the page down.
func (c *Compositor) load(ctx context.Context, img source.Image, width, height int) (tile *image.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeImageProcessing, "decoding %s panicked: %v", img.Name, r)
		}
	}()

	tile, err = c.Loader.Load(ctx, img, width, height)
	if err != nil {
		return nil, err
	}
	if b := tile.Bounds(); b.Dx() != width || b.Dy() != height {
		return nil, errors.New(errors.ErrCodeImageProcessing, "tile for %s is %dx%d, want %dx%d", img.Name, b.Dx(), b.Dy(), width, height)
	}
	return tile, nil
}
