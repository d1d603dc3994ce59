// Package poster implements the collage/poster layout engine.
//
// Given a folder of album-art images and a Config, the engine plans a grid,
// composites tiles (with optional per-tile effects), places title/subtitle
// text and badges, and writes one output image. Four entry points cover the
// supported layouts:
//
//   - [Grid]: fixed-size poster with title/subtitle and an N-column grid
//   - [Billboard]: tiered square grid with effects, logo, and QR badge
//   - [Collage]: duplicate-aware bare grid of unique covers
//   - [TextFill]: legacy mode that fills rendered text with image tiles
//
// # Design
//
// Each call owns its canvas and image buffers end to end; the engine is
// synchronous and defines no cancellation. Errors carry codes from
// pkg/errors: configuration problems (missing fonts, bad colors, no room
// for the text block) are detected before any source image is decoded, an
// undecodable source image aborts the whole operation, and a failed layout
// never leaves a partial output file.
//
// # Example
//
//	cfg := poster.DefaultConfig()
//	cfg.Title = "Your Top Songs 2025"
//	cfg.Subtitle = "the year in covers"
//	img, err := poster.Grid("data/cover_art", "out/poster.jpg", cfg)
package poster
