package compose

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/source"
)

// TileLoader produces the card tile for one source image, exactly
// width x height pixels and fully opaque.
type TileLoader interface {
	Load(ctx context.Context, img source.Image, width, height int) (*image.NRGBA, error)
}

// DecodeLoader decodes tiles straight from the source file.
// JPEG EXIF orientation is applied before resizing.
type DecodeLoader struct{}

// Load implements TileLoader.
func (DecodeLoader) Load(ctx context.Context, img source.Image, width, height int) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := imaging.Open(img.Path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageProcessing, err, "decode %s", img.Name)
	}
	return Normalize(src, width, height), nil
}

// Normalize flattens src onto white and resamples it to width x height.
func Normalize(src image.Image, width, height int) *image.NRGBA {
	size := src.Bounds().Size()
	flat := imaging.New(size.X, size.Y, color.White)
	flat = imaging.Overlay(flat, src, image.Pt(0, 0), 1.0)
	return imaging.Resize(flat, width, height, imaging.Lanczos)
}
