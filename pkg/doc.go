// Package pkg provides the core libraries for the streamlytics application.
//
// # Overview
//
// Streamlytics fetches album cover art and listening history from the Spotify
// Web API and turns them into posters, collages, and listening analytics. The
// pkg directory is organized into five main areas:
//
//  1. [poster] - The collage/poster layout engine (grid planning, text
//     placement, tile compositing, effects, deduplication)
//  2. [spotify] - Spotify Web API client and cover-art downloader
//  3. [history] - Listening-history store and analytics aggregations
//  4. [cache] - Response cache backends (file, Redis, null)
//  5. [config] - Application configuration (TOML file + environment)
//
// # Architecture
//
// The typical data flow:
//
//	Spotify Web API
//	         ↓
//	    [spotify] package (fetch tracks, download cover art)
//	         ↓
//	    cover-art folder on disk        [history] package (records, stats)
//	         ↓
//	    [poster] package (plan grid → place text → composite tiles)
//	         ↓
//	    JPEG/PNG poster on disk + in-memory image
//
// # Quick Start
//
// Generate a titled grid poster from a folder of cover art:
//
//	import "github.com/streamlytics/streamlytics/pkg/poster"
//
//	cfg := poster.DefaultConfig()
//	cfg.Title = "Your Top Songs 2025"
//	cfg.Subtitle = "January – December"
//	result, err := poster.Grid("data/cover_art", "out/poster.jpg", cfg)
//
// Errors carry machine-readable codes from the [errors] package; the engine
// never retries and never produces a partial output file.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/poster/... # Layout engine only
//
// [poster]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/poster
// [spotify]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/spotify
// [history]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/history
// [cache]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/cache
// [config]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/config
// [errors]: https://pkg.go.dev/github.com/streamlytics/streamlytics/pkg/errors
package pkg
