// Package export writes composited pages to a document.
//
// [PDFExporter] emits one PDF page per [compose.Page], sized so that the
// page image maps to the physical page at the run's DPI. [WriteFile] puts
// the document in place atomically: the target is either the complete new
// document or whatever was there before.
package export

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mab8192/tcgprint/pkg/compose"
	"github.com/mab8192/tcgprint/pkg/errors"
)

// Metadata is the document information dictionary.
type Metadata struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Exporter encodes an ordered list of pages.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, pages []*compose.Page, meta Metadata) error
}

// WriteFile exports pages to path. The document is written to a temporary
// file next to path and renamed over it on success.
func WriteFile(ctx context.Context, path string, exp Exporter, pages []*compose.Page, meta Metadata) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmpPath := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "create %s", path)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := exp.Export(ctx, f, pages, meta); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeExport, err, "write %s", path)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "write %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(errors.ErrCodeExport, err, "replace %s", path)
	}
	return nil
}
