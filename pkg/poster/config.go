package poster

import (
	"github.com/streamlytics/streamlytics/pkg/errors"
)

// Effect selects a per-tile visual transformation applied before pasting.
type Effect string

// Supported tile effects.
const (
	EffectNone    Effect = "none"
	EffectBevel   Effect = "bevel"
	EffectRounded Effect = "rounded"
)

// SampleMode controls which images are dropped when the source set exceeds
// the configured cap. Random sampling requires a caller-supplied seed so
// results stay reproducible.
type SampleMode string

// Supported sampling modes.
const (
	SampleTruncate SampleMode = "truncate"
	SampleRandom   SampleMode = "random"
)

// FontSpec identifies a TrueType font and rendering size.
// Name may be a file path, a family name resolved against installed system
// fonts, or empty for the embedded Go Regular fallback.
type FontSpec struct {
	Name string
	Size float64
}

// Config describes a single poster/collage request. It is constructed once
// per request by the caller and never mutated by the engine.
type Config struct {
	// Canvas dimensions in pixels (Grid mode; Billboard/Collage derive
	// their canvas from the grid).
	Width  int
	Height int

	// MarginInches is converted at 72 px/inch.
	MarginInches float64

	// Background is a hex color such as "#FFFFFF".
	Background string

	// Title block. Empty strings take no vertical space.
	Title        string
	Subtitle     string
	TitleFont    FontSpec
	SubtitleFont FontSpec
	TitleGap     int // px between title and subtitle
	SubtitleGap  int // px between subtitle and the image grid

	// Columns is the explicit column count; 0 selects the auto heuristic.
	Columns int

	// MaxImages caps how many source images are placed; 0 means all.
	MaxImages int
	Sample    SampleMode
	Seed      int64

	// Per-tile effect and parameters.
	Effect       Effect
	BevelWidth   int
	CornerRadius int

	// BorderPx draws a white border inside each cell when > 0.
	BorderPx int

	// TileSize is the square cell size for Billboard/Collage grids.
	TileSize int

	// OnlyImages skips text, logo, and margins in Billboard mode.
	OnlyImages bool

	// LogoPath points at an optional logo image; missing files are skipped.
	LogoPath string

	// QRContent, when set, renders a QR badge in the bottom-right corner.
	QRContent string

	// MaxCanvasSide bounds either canvas dimension. Enforced before the
	// canvas is allocated; this is the engine's only resource control.
	MaxCanvasSide int

	// Overrides adjusts text/logo placement for specific grid shapes.
	Overrides OverrideTable

	// Quality is the JPEG encode quality.
	Quality int
}

// DefaultConfig returns the defaults for a titled grid poster.
func DefaultConfig() Config {
	return Config{
		Width:         4000,
		Height:        6000,
		MarginInches:  0.5,
		Background:    "#FFFFFF",
		TitleFont:     FontSpec{Size: 200},
		SubtitleFont:  FontSpec{Size: 100},
		TitleGap:      50,
		SubtitleGap:   100,
		Sample:        SampleTruncate,
		Effect:        EffectNone,
		TileSize:      500,
		MaxCanvasSide: 15000,
		Overrides:     DefaultOverrides(),
		Quality:       100,
	}
}

// DefaultBillboardConfig returns the defaults for the billboard layout.
// The lavender background and larger faces match the original poster style.
func DefaultBillboardConfig() Config {
	cfg := DefaultConfig()
	cfg.Background = "#C8B4FF"
	cfg.TitleFont.Size = 250
	cfg.SubtitleFont.Size = 180
	cfg.BevelWidth = 10
	cfg.CornerRadius = 30
	cfg.Quality = 95
	return cfg
}

// validate checks the parts of the configuration that do not depend on the
// image count. It runs before any directory scan or image decode so that
// configuration errors never follow side effects.
func (c Config) validate() error {
	if c.TileSize < 0 || c.BorderPx < 0 || c.BevelWidth < 0 || c.CornerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "negative size parameter")
	}
	switch c.Effect {
	case EffectNone, EffectBevel, EffectRounded, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown effect %q", c.Effect)
	}
	switch c.Sample {
	case SampleTruncate, SampleRandom, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown sample mode %q", c.Sample)
	}
	if _, err := parseHexColor(c.Background); err != nil {
		return err
	}
	return nil
}

// marginPx converts the configured margin to pixels at 72 px/inch.
func (c Config) marginPx() int {
	return int(c.MarginInches * 72)
}

// quality returns the JPEG quality, defaulting to 95.
func (c Config) quality() int {
	if c.Quality <= 0 {
		return 95
	}
	return c.Quality
}
