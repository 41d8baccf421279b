// Package source finds the card images in an input directory.
//
// [Scan] lists a directory non-recursively in name order and keeps every
// regular file whose content decodes as an image header. The file
// extension is ignored: a PNG named card.dat is accepted and a text file
// named card.png is skipped. Supported formats are PNG, JPEG, GIF, BMP,
// TIFF and WebP.
package source

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mab8192/tcgprint/pkg/errors"
)

// Image is a validated card image. It is read-only once scanned.
type Image struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// Scan returns the usable images in dir, sorted by file name.
//
// A missing directory is an INPUT_NOT_FOUND error and a directory without
// a single decodable image is a NO_IMAGES error. Files that fail the check
// are skipped with a debug log line. Two entries resolving to the same file
// (a symlink and its target) are listed once.
func Scan(ctx context.Context, dir string, logger *log.Logger) ([]Image, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeInputNotFound, "input directory %q does not exist", dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input directory %q", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input directory %q", dir)
	}

	logger.Debug("scanning for images", "dir", dir, "entries", len(entries))

	seen := make(map[string]bool, len(entries))
	var images []Image
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, err, "scan %q", dir)
		}

		path := filepath.Join(dir, entry.Name())
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			logger.Debug("skipping unresolvable entry", "path", path, "err", err)
			continue
		}
		if seen[resolved] {
			logger.Debug("skipping duplicate", "path", path, "target", resolved)
			continue
		}

		img, err := Inspect(path)
		if err != nil {
			logger.Debug("skipping non-image", "path", path, "err", err)
			continue
		}
		seen[resolved] = true
		images = append(images, img)
	}

	if len(images) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no valid images found in input directory %q", dir)
	}
	return images, nil
}

// Inspect checks that path is a regular file with a decodable image header
// and returns its handle.
func Inspect(path string) (Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, err
	}
	if !info.Mode().IsRegular() {
		return Image{}, errors.New(errors.ErrCodeInvalidInput, "%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Path:   path,
		Name:   filepath.Base(path),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   info.Size(),
	}, nil
}
