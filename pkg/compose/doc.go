// Package compose renders pages of card tiles.
//
// A page is an opaque white canvas of the geometry's pixel size. Each
// image of a batch is flattened onto white, resampled to the card size with
// a Lanczos filter and drawn at its grid cell (see [layout.Geometry.Cell]).
//
// An image that cannot be decoded or resized does not fail the page: its
// cell stays white and the problem is recorded as a [Failure] on the
// returned [Page]. [Compositor.RenderPage] only returns an error when the
// context is canceled or the batch does not fit the geometry.
//
// Tile production is pluggable through [TileLoader]. [DecodeLoader] reads
// from disk; [CachedLoader] puts a [cache.Cache] in front of another loader.
package compose
