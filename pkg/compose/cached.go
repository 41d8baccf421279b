package compose

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/mab8192/tcgprint/pkg/cache"
	"github.com/mab8192/tcgprint/pkg/errors"
	"github.com/mab8192/tcgprint/pkg/observability"
	"github.com/mab8192/tcgprint/pkg/source"
)

const keyTypeTile = "tile"

// CachedLoader serves tiles from a cache and falls back to Next on a miss.
// Tiles are keyed by the file's content hash and the requested size and are
// stored PNG-encoded. Cache errors are logged and never fail a load.
type CachedLoader struct {
	Next   TileLoader
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewCachedLoader wraps next with c. Nil arguments fall back to
// DecodeLoader, NullCache, DefaultKeyer and a discard logger.
func NewCachedLoader(next TileLoader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *CachedLoader {
	if next == nil {
		next = DecodeLoader{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedLoader{Next: next, Cache: c, Keyer: keyer, Logger: logger}
}

// Load implements TileLoader.
func (l *CachedLoader) Load(ctx context.Context, img source.Image, width, height int) (*image.NRGBA, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageProcessing, err, "read %s", img.Name)
	}
	key := l.Keyer.TileKey(cache.Hash(data), cache.TileKeyOpts{Width: width, Height: height})

	if tile := l.lookup(ctx, key, width, height); tile != nil {
		observability.Cache().OnCacheHit(ctx, keyTypeTile)
		return tile, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeTile)

	tile, err := l.Next.Load(ctx, img, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, tile, imaging.PNG); err != nil {
		l.Logger.Debug("tile encode failed", "path", img.Path, "err", err)
		return tile, nil
	}
	if err := l.Cache.Set(ctx, key, buf.Bytes(), cache.TTLTile); err != nil {
		l.Logger.Debug("tile cache write failed", "path", img.Path, "err", err)
		return tile, nil
	}
	observability.Cache().OnCacheSet(ctx, keyTypeTile, buf.Len())
	return tile, nil
}

func (l *CachedLoader) lookup(ctx context.Context, key string, width, height int) *image.NRGBA {
	data, ok, err := l.Cache.Get(ctx, key)
	if err != nil {
		l.Logger.Debug("tile cache read failed", "key", key, "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		l.Logger.Debug("discarding unreadable tile", "key", key, "err", err)
		_ = l.Cache.Delete(ctx, key)
		return nil
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		return nil
	}
	return imaging.Clone(img)
}
