package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/config"
	"github.com/streamlytics/streamlytics/pkg/poster"
)

// Poster modes.
const (
	modeGrid      = "grid"
	modeBillboard = "billboard"
	modeCollage   = "collage"
	modeTextFill  = "textfill"
)

// posterOpts holds the command-line flags for the poster command.
type posterOpts struct {
	output     string  // output file path
	mode       string  // grid, billboard, collage, or textfill
	title      string  // poster title
	subtitle   string  // poster subtitle
	text       string  // text to fill (textfill mode)
	font       string  // font file path or family name
	background string  // background hex color
	columns    int     // explicit column count (grid mode, 0 = auto)
	maxImages  int     // cap on source images (0 = all)
	sample     string  // truncate or random
	seed       int64   // seed for random sampling
	effect     string  // none, bevel, or rounded
	border     int     // white border width per tile
	tileSize   int     // square tile size (billboard/collage)
	onlyImages bool    // billboard: skip text, logo, margins
	logo       string  // logo image path
	qr         string  // QR code content
	overrides  string  // YAML overrides file
	width      int     // canvas width (grid mode)
	height     int     // canvas height (grid mode)
	margin     float64 // margin in inches (grid mode)
	quality    int     // JPEG quality
}

// posterCommand creates the poster generation command.
func (c *CLI) posterCommand() *cobra.Command {
	opts := posterOpts{
		mode:   modeGrid,
		sample: string(poster.SampleTruncate),
		margin: 0.5,
	}

	cmd := &cobra.Command{
		Use:   "poster [folder]",
		Short: "Generate a poster from a folder of cover art",
		Long: `Generate a poster image from the JPEG/PNG files in a folder.

Modes:
  grid       fixed-size poster, title block above an N-column grid
  billboard  tiered square grid with a centered title and optional logo
  collage    bare grid of unique covers (duplicates removed)
  textfill   one large string filled with image tiles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runPoster(cmd, args[0], appCfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default derives from the folder name)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "poster mode: grid, billboard, collage, textfill")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "poster title")
	cmd.Flags().StringVar(&opts.subtitle, "subtitle", "", "poster subtitle")
	cmd.Flags().StringVar(&opts.text, "text", "", "text to fill with tiles (textfill mode)")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file path or installed family name")
	cmd.Flags().StringVar(&opts.background, "background", "", "background hex color")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "explicit column count (grid mode, 0 = auto)")
	cmd.Flags().IntVar(&opts.maxImages, "max-images", 0, "cap on source images (0 = all)")
	cmd.Flags().StringVar(&opts.sample, "sample", opts.sample, "sampling mode when over the cap: truncate, random")
	cmd.Flags().Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "seed for random sampling")
	cmd.Flags().StringVar(&opts.effect, "effect", "", "tile effect: none, bevel, rounded")
	cmd.Flags().IntVar(&opts.border, "border", 0, "white border width per tile in px")
	cmd.Flags().IntVar(&opts.tileSize, "tile-size", 0, "square tile size in px (billboard/collage)")
	cmd.Flags().BoolVar(&opts.onlyImages, "only-images", false, "billboard: skip text, logo, and margins")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "logo image path (billboard)")
	cmd.Flags().StringVar(&opts.qr, "qr", "", "QR code content placed bottom-right (billboard)")
	cmd.Flags().StringVar(&opts.overrides, "overrides", "", "YAML placement overrides file")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in px (grid mode)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in px (grid mode)")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "margin in inches (grid mode)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality (1-100)")

	return cmd
}

// runPoster builds the engine configuration and dispatches on mode.
func (c *CLI) runPoster(cmd *cobra.Command, folder string, appCfg config.Config, opts *posterOpts) error {
	logger := loggerFromContext(cmd.Context())

	outPath := opts.output
	if outPath == "" {
		base := filepath.Base(filepath.Clean(folder))
		outPath = filepath.Join(appCfg.Poster.OutputDir, fmt.Sprintf("%s_%s.jpg", base, opts.mode))
	}

	if opts.mode == modeTextFill {
		return c.runTextFill(cmd, folder, outPath, appCfg, opts)
	}

	cfg, err := buildPosterConfig(appCfg, opts)
	if err != nil {
		return err
	}

	logger.Infof("Generating %s poster from %s", opts.mode, folder)
	prog := newProgress(logger)

	var genErr error
	switch opts.mode {
	case modeGrid:
		_, genErr = poster.Grid(folder, outPath, cfg)
	case modeBillboard:
		_, genErr = poster.Billboard(folder, outPath, cfg)
	case modeCollage:
		_, genErr = poster.Collage(folder, outPath, cfg)
	default:
		return fmt.Errorf("unknown mode: %s (must be 'grid', 'billboard', 'collage', or 'textfill')", opts.mode)
	}
	if genErr != nil {
		return genErr
	}

	prog.done("Poster generated")
	printSuccess("Generated %s poster", opts.mode)
	printFile(outPath)
	return nil
}

// runTextFill handles the textfill mode, which has its own config shape.
func (c *CLI) runTextFill(cmd *cobra.Command, folder, outPath string, appCfg config.Config, opts *posterOpts) error {
	logger := loggerFromContext(cmd.Context())

	text := opts.text
	if text == "" {
		text = opts.title
	}

	cfg := poster.DefaultTextFillConfig()
	cfg.Text = text
	if opts.font != "" {
		cfg.Font.Name = opts.font
	} else if appCfg.Poster.FontName != "" {
		cfg.Font.Name = appCfg.Poster.FontName
	}
	if opts.background != "" {
		cfg.Background = opts.background
	}
	if opts.quality > 0 {
		cfg.Quality = opts.quality
	}

	logger.Infof("Generating text-filled poster from %s", folder)
	prog := newProgress(logger)
	if _, err := poster.TextFill(folder, outPath, cfg); err != nil {
		return err
	}
	prog.done("Poster generated")
	printSuccess("Generated text-filled poster")
	printFile(outPath)
	return nil
}

// buildPosterConfig merges app config defaults and command flags into an
// engine configuration.
func buildPosterConfig(appCfg config.Config, opts *posterOpts) (poster.Config, error) {
	var cfg poster.Config
	if opts.mode == modeBillboard {
		cfg = poster.DefaultBillboardConfig()
	} else {
		cfg = poster.DefaultConfig()
	}

	cfg.Title = opts.title
	cfg.Subtitle = opts.subtitle
	cfg.Columns = opts.columns
	cfg.MaxImages = opts.maxImages
	cfg.Seed = opts.seed
	cfg.BorderPx = opts.border
	cfg.OnlyImages = opts.onlyImages
	cfg.QRContent = opts.qr
	cfg.MarginInches = opts.margin

	switch strings.ToLower(opts.sample) {
	case "", string(poster.SampleTruncate):
		cfg.Sample = poster.SampleTruncate
	case string(poster.SampleRandom):
		cfg.Sample = poster.SampleRandom
	default:
		return cfg, fmt.Errorf("unknown sample mode: %s (must be 'truncate' or 'random')", opts.sample)
	}

	if opts.effect != "" {
		cfg.Effect = poster.Effect(opts.effect)
	}
	if opts.font != "" {
		cfg.TitleFont.Name = opts.font
		cfg.SubtitleFont.Name = opts.font
	} else if appCfg.Poster.FontName != "" {
		cfg.TitleFont.Name = appCfg.Poster.FontName
		cfg.SubtitleFont.Name = appCfg.Poster.FontName
	}
	if opts.background != "" {
		cfg.Background = opts.background
	} else if appCfg.Poster.Background != "" && opts.mode == modeGrid {
		cfg.Background = appCfg.Poster.Background
	}
	if opts.logo != "" {
		cfg.LogoPath = opts.logo
	} else if appCfg.Poster.LogoPath != "" {
		cfg.LogoPath = appCfg.Poster.LogoPath
	}
	if opts.tileSize > 0 {
		cfg.TileSize = opts.tileSize
	}
	if opts.width > 0 {
		cfg.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Height = opts.height
	}
	if opts.quality > 0 {
		cfg.Quality = opts.quality
	} else if appCfg.Poster.Quality > 0 {
		cfg.Quality = appCfg.Poster.Quality
	}

	if opts.overrides != "" {
		table, err := poster.LoadOverrides(opts.overrides)
		if err != nil {
			return cfg, err
		}
		cfg.Overrides = table
	}

	return cfg, nil
}
