package compose

import (
	"context"
	"image"
	"image/color"
	"os"
	"sync/atomic"
	"testing"

	"github.com/mab8192/tcgprint/pkg/cache"
	"github.com/mab8192/tcgprint/pkg/source"
)

type countingLoader struct {
	calls atomic.Int32
	next  TileLoader
}

func (l *countingLoader) Load(ctx context.Context, img source.Image, w, h int) (*image.NRGBA, error) {
	l.calls.Add(1)
	return l.next.Load(ctx, img, w, h)
}

func TestCachedLoaderHit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	img := writeSolid(t, dir, "a.png", red, 40, 60)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	counter := &countingLoader{next: DecodeLoader{}}
	l := NewCachedLoader(counter, fc, nil, quietLogger())

	first, err := l.Load(ctx, img, 20, 30)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := l.Load(ctx, img, 20, 30)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if n := counter.calls.Load(); n != 1 {
		t.Errorf("decoder called %d times, want 1", n)
	}
	if first.Bounds() != second.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", first.Bounds(), second.Bounds())
	}
	if first.NRGBAAt(10, 15) != second.NRGBAAt(10, 15) {
		t.Errorf("cached tile differs from decoded tile")
	}

	// a different size is a different key
	if _, err := l.Load(ctx, img, 10, 15); err != nil {
		t.Fatal(err)
	}
	if n := counter.calls.Load(); n != 2 {
		t.Errorf("decoder called %d times, want 2", n)
	}
}

func TestCachedLoaderContentChange(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	img := writeSolid(t, dir, "a.png", red, 4, 4)

	fc, _ := cache.NewFileCache(t.TempDir())
	l := NewCachedLoader(nil, fc, nil, nil)

	if _, err := l.Load(ctx, img, 4, 4); err != nil {
		t.Fatal(err)
	}
	writeSolid(t, dir, "a.png", blue, 4, 4)

	tile, err := l.Load(ctx, img, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if c := tile.NRGBAAt(1, 1); c != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want blue after the file changed", c)
	}
}

func TestCachedLoaderNullCache(t *testing.T) {
	ctx := context.Background()
	img := writeSolid(t, t.TempDir(), "a.png", red, 4, 4)

	counter := &countingLoader{next: DecodeLoader{}}
	l := NewCachedLoader(counter, nil, nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := l.Load(ctx, img, 4, 4); err != nil {
			t.Fatal(err)
		}
	}
	if n := counter.calls.Load(); n != 2 {
		t.Errorf("decoder called %d times, want 2 without a cache", n)
	}
}

func TestCachedLoaderMissingFile(t *testing.T) {
	l := NewCachedLoader(nil, nil, nil, nil)
	_, err := l.Load(context.Background(), source.Image{Path: "/does/not/exist.png", Name: "exist.png"}, 4, 4)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCachedLoaderIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	img := writeSolid(t, t.TempDir(), "a.png", red, 4, 4)
	fc, _ := cache.NewFileCache(t.TempDir())

	data, err := os.ReadFile(img.Path)
	if err != nil {
		t.Fatal(err)
	}
	key := cache.NewDefaultKeyer().TileKey(cache.Hash(data), cache.TileKeyOpts{Width: 4, Height: 4})
	if err := fc.Set(ctx, key, []byte("not a png"), 0); err != nil {
		t.Fatal(err)
	}

	tile, err := NewCachedLoader(nil, fc, nil, nil).Load(ctx, img, 4, 4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c := tile.NRGBAAt(0, 0); c != red {
		t.Errorf("pixel = %v, want red", c)
	}
}
