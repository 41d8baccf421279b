package export

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/mab8192/tcgprint/pkg/compose"
	"github.com/mab8192/tcgprint/pkg/errors"
)

func testPages(n int) []*compose.Page {
	pages := make([]*compose.Page, n)
	for i := range pages {
		pages[i] = &compose.Page{Index: i, Image: imaging.New(85, 110, color.White)}
	}
	return pages
}

func TestPDFExporter(t *testing.T) {
	var one, two bytes.Buffer
	exp := NewPDFExporter(10)
	meta := Metadata{Title: "deck", Creator: "tcgprint test"}

	if err := exp.Export(context.Background(), &one, testPages(1), meta); err != nil {
		t.Fatalf("Export(1): %v", err)
	}
	if err := exp.Export(context.Background(), &two, testPages(2), meta); err != nil {
		t.Fatalf("Export(2): %v", err)
	}

	for _, out := range []*bytes.Buffer{&one, &two} {
		if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
			t.Errorf("output does not start with a PDF header: %q", out.Bytes()[:min(16, out.Len())])
		}
		if !bytes.Contains(out.Bytes(), []byte("%%EOF")) {
			t.Error("output has no EOF marker")
		}
	}
	if two.Len() <= one.Len() {
		t.Errorf("two-page document (%d bytes) not larger than one-page (%d bytes)", two.Len(), one.Len())
	}
}

func TestPDFExporterErrors(t *testing.T) {
	tests := []struct {
		name  string
		dpi   int
		pages []*compose.Page
	}{
		{"no pages", 300, nil},
		{"zero dpi", 0, testPages(1)},
		{"nil page", 300, []*compose.Page{nil}},
		{"nil image", 300, []*compose.Page{{Index: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPDFExporter(tt.dpi).Export(context.Background(), io.Discard, tt.pages, Metadata{})
			if !errors.Is(err, errors.ErrCodeExport) {
				t.Errorf("err = %v, want EXPORT_FAILED", err)
			}
		})
	}
}

func TestPDFExporterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewPDFExporter(10).Export(ctx, io.Discard, testPages(1), Metadata{})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("err = %v, want CANCELED", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pdf")

	if err := WriteFile(context.Background(), path, NewPDFExporter(10), testPages(2), Metadata{Title: "deck"}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("written file is not a PDF")
	}
	assertOnlyFile(t, dir, "deck.pdf")
}

type failingExporter struct{ partial bool }

func (e failingExporter) Export(_ context.Context, w io.Writer, _ []*compose.Page, _ Metadata) error {
	if e.partial {
		w.Write([]byte("%PDF-1.7 partial"))
	}
	return io.ErrUnexpectedEOF
}

func TestWriteFileFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pdf")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(context.Background(), path, failingExporter{partial: true}, testPages(1), Metadata{})
	if !errors.Is(err, errors.ErrCodeExport) {
		t.Fatalf("err = %v, want EXPORT_FAILED", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("target = %q, want untouched", data)
	}
	assertOnlyFile(t, dir, "deck.pdf")
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "deck.pdf")
	err := WriteFile(context.Background(), path, NewPDFExporter(10), testPages(1), Metadata{})
	if !errors.Is(err, errors.ErrCodeExport) {
		t.Errorf("err = %v, want EXPORT_FAILED", err)
	}
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 1 || names[0] != name {
		t.Errorf("directory holds %s, want only %s", strings.Join(names, ", "), name)
	}
}

