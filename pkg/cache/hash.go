package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// TileKeyOpts are the rendering parameters a tile depends on.
type TileKeyOpts struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TileKey returns the key for a source file's normalized tile.
	TileKey(contentHash string, opts TileKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TileKey returns "tile:<sha256>" over the content hash and size.
func (DefaultKeyer) TileKey(contentHash string, opts TileKeyOpts) string {
	return hashKey("tile", contentHash, opts)
}
