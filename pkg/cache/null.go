package cache

import (
	"context"
	"time"
)

// NullCache stores nothing; every tile lookup misses. It backs --no-cache
// and runners created without a cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a NullCache as a Cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
