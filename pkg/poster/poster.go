package poster

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// Billboard layout constants. The side and bottom margins are fixed; the
// top margin scales with the grid unless an override says otherwise.
const (
	billboardSideMargin   = 75
	billboardBottomMargin = 75
	defaultSubtitleOffset = 100
	defaultLogoSize       = 350
	logoRightMargin       = 50
)

// Grid generates a fixed-size poster with a title/subtitle block and an
// N-column image grid below it. Columns come from cfg.Columns or, when
// zero, from the auto heuristic. The composed image is written to outPath
// and also returned for immediate display.
func Grid(folder, outPath string, cfg Config) (image.Image, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions %dx%d", cfg.Width, cfg.Height)
	}

	// The canvas cap bounds memory use and is applied before allocation.
	width, height := cfg.Width, cfg.Height
	if cfg.MaxCanvasSide > 0 {
		if width > cfg.MaxCanvasSide {
			width = cfg.MaxCanvasSide
		}
		if height > cfg.MaxCanvasSide {
			height = cfg.MaxCanvasSide
		}
	}

	// Fonts and text extents come first: configuration problems must
	// surface before any source image is decoded.
	tb, err := measureTextBlock(cfg)
	if err != nil {
		return nil, err
	}

	margin := cfg.marginPx()
	gridTop := margin + tb.height(cfg)
	areaW := width - 2*margin
	areaH := height - gridTop - margin
	if areaW <= 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace,
			"no horizontal room for images: width %d, margin %d", width, margin)
	}
	if areaH <= 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace,
			"no vertical room for images after text block: height %d, grid top %d, margin %d", height, gridTop, margin)
	}

	paths, err := listImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no images found in %s", folder)
	}
	paths = sampleImages(paths, cfg.MaxImages, cfg.Sample, cfg.Seed)

	rows, cols, err := planGrid(len(paths), cfg.Columns)
	if err != nil {
		return nil, err
	}

	cellW := float64(areaW) / float64(cols)
	cellH := float64(areaH) / float64(rows)
	if int(cellW) <= 0 || int(cellH) <= 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace,
			"grid %dx%d leaves empty cells in a %dx%d area", rows, cols, areaW, areaH)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	tb.draw(dc, cfg, margin)
	canvas := imaging.Clone(dc.Image())

	idx := 0
	yPos := float64(gridTop)
	for row := 0; row < rows && idx < len(paths); row++ {
		xPos := float64(margin)
		for col := 0; col < cols && idx < len(paths); col++ {
			src, err := loadImage(paths[idx])
			if err != nil {
				return nil, err
			}
			idx++

			tile := compositeTile(src, int(cellW), int(cellH), bg, cfg)
			canvas = imaging.Paste(canvas, tile, image.Pt(int(xPos), int(yPos)))
			xPos += cellW
		}
		yPos += cellH
	}

	if err := save(canvas, outPath, cfg.quality()); err != nil {
		return nil, err
	}
	return canvas, nil
}

// Billboard generates a billboard-style poster: a tiered square grid of
// covers with a centered title block in the top margin, an optional logo
// on the right, and optional per-tile effects. With cfg.OnlyImages the
// text, logo, and margins are skipped and only the grid is produced.
func Billboard(folder, outPath string, cfg Config) (image.Image, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	size := cfg.TileSize
	if size <= 0 {
		size = 500
	}

	paths, err := listImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no images found in %s", folder)
	}
	paths = sampleImages(paths, cfg.MaxImages, cfg.Sample, cfg.Seed)

	rows, cols := BillboardGrid(len(paths))
	paths = paths[:rows*cols]

	posterW := cols * size
	posterH := rows * size
	topMargin := posterH / 5
	sideMargin := billboardSideMargin
	bottomMargin := billboardBottomMargin

	titleOffset := 0
	subtitleOffset := defaultSubtitleOffset
	blockOffset := 0
	logoSize := defaultLogoSize
	logoOffset := 0
	textCfg := cfg

	if cfg.OnlyImages {
		topMargin, sideMargin, bottomMargin = 0, 0, 0
	} else {
		// Each override field is optional; absent fields keep the
		// generic value computed above.
		if ov, ok := cfg.Overrides.lookup(rows, cols); ok {
			applyInt(&topMargin, ov.TopMargin)
			applyInt(&titleOffset, ov.TitleOffset)
			applyInt(&subtitleOffset, ov.SubtitleOffset)
			applyInt(&blockOffset, ov.BlockOffset)
			applyInt(&logoSize, ov.LogoSize)
			applyInt(&logoOffset, ov.LogoOffset)
			if ov.TitleFontSize != nil && *ov.TitleFontSize > 0 {
				textCfg.TitleFont.Size = *ov.TitleFontSize
			}
			if ov.SubtitleFontSize != nil && *ov.SubtitleFontSize > 0 {
				textCfg.SubtitleFont.Size = *ov.SubtitleFontSize
			}
		}
		posterW += 2 * sideMargin
		posterH += topMargin + bottomMargin
	}

	if cfg.MaxCanvasSide > 0 && (posterW > cfg.MaxCanvasSide || posterH > cfg.MaxCanvasSide) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"billboard canvas %dx%d exceeds maximum side %d", posterW, posterH, cfg.MaxCanvasSide)
	}

	var tb *textBlock
	titleY := 0
	if !cfg.OnlyImages {
		// Fonts load and measure before any cover is decoded.
		tb, err = measureTextBlock(textCfg)
		if err != nil {
			return nil, err
		}
	}

	dc := gg.NewContext(posterW, posterH)
	dc.SetColor(bg)
	dc.Clear()

	if tb != nil {
		totalTextHeight := int(tb.titleH) + int(tb.subtitleH) + subtitleOffset
		titleY = (topMargin-totalTextHeight)/2 + blockOffset
		subtitleY := titleY + int(tb.titleH) + subtitleOffset
		// titleOffset nudges the title (and the logo aligned with it)
		// without moving the subtitle.
		titleY += titleOffset

		dc.SetRGB(0, 0, 0)
		if cfg.Title != "" {
			dc.SetFontFace(tb.titleFace)
			dc.DrawString(cfg.Title, (float64(posterW)-tb.titleW)/2, float64(titleY)+tb.titleH)
		}
		if cfg.Subtitle != "" {
			dc.SetFontFace(tb.subtitleFace)
			dc.DrawString(cfg.Subtitle, (float64(posterW)-tb.subtitleW)/2, float64(subtitleY)+tb.subtitleH)
		}
	}
	canvas := imaging.Clone(dc.Image())

	for idx, path := range paths {
		src, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		tile := compositeTile(src, size, size, bg, cfg)
		x := sideMargin + (idx%cols)*size
		y := topMargin + (idx/cols)*size
		canvas = imaging.Paste(canvas, tile, image.Pt(x, y))
	}

	if !cfg.OnlyImages {
		canvas, err = placeLogo(canvas, cfg.LogoPath, logoSize, posterW-logoSize-logoRightMargin, titleY+logoOffset)
		if err != nil {
			return nil, err
		}
	}
	if cfg.QRContent != "" {
		canvas, err = placeQRBadge(canvas, cfg.QRContent)
		if err != nil {
			return nil, err
		}
	}

	if err := save(canvas, outPath, cfg.quality()); err != nil {
		return nil, err
	}
	return canvas, nil
}

// Collage generates a bare grid of unique covers: no text, no logo, no
// margins. Before planning the grid each image is fingerprinted and
// visually exact duplicates are dropped, preserving first-seen order.
func Collage(folder, outPath string, cfg Config) (image.Image, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	size := cfg.TileSize
	if size <= 0 {
		size = 500
	}

	paths, err := listImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no images found in %s", folder)
	}

	unique, err := dedupImages(paths)
	if err != nil {
		return nil, err
	}
	if len(unique) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no unique images left in %s after deduplication", folder)
	}

	rows, cols := BillboardGrid(len(unique))
	unique = unique[:rows*cols]

	collageW := cols * size
	collageH := rows * size
	if cfg.MaxCanvasSide > 0 && (collageW > cfg.MaxCanvasSide || collageH > cfg.MaxCanvasSide) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"collage canvas %dx%d exceeds maximum side %d", collageW, collageH, cfg.MaxCanvasSide)
	}

	canvas := imaging.New(collageW, collageH, bg)
	for idx, path := range unique {
		src, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		tile := compositeTile(src, size, size, bg, cfg)
		canvas = imaging.Paste(canvas, tile, image.Pt((idx%cols)*size, (idx/cols)*size))
	}

	if err := save(canvas, outPath, cfg.quality()); err != nil {
		return nil, err
	}
	return canvas, nil
}

// placeLogo pastes the logo (thumbnailed to size) at the given position.
// An empty or missing logo path is skipped silently; a present but
// undecodable logo aborts like any other source image.
func placeLogo(canvas *image.NRGBA, path string, size, x, y int) (*image.NRGBA, error) {
	if path == "" || !fileExists(path) {
		return canvas, nil
	}
	logo, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fit(logo, size, size, imaging.Lanczos)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return imaging.Overlay(canvas, thumb, image.Pt(x, y), 1.0), nil
}

// save writes the composed canvas to path, creating parent directories as
// needed. The format follows the file extension; quality applies to JPEG.
// A failed save is reported as an IO error and leaves no partial output
// visible to the caller's success path.
func save(img image.Image, path string, quality int) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write output %s", path)
	}
	return nil
}
