package poster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// compositeTile prepares one grid cell: the source image is resized to fit
// the cell (aspect ratio preserved, never upscaled beyond the cell), the
// configured effect is applied, and the result is centered on a cell-sized
// background. Empty space within the cell shows the background color,
// never a stretched image.
func compositeTile(src image.Image, cellW, cellH int, bg color.Color, cfg Config) *image.NRGBA {
	thumb := imaging.Fit(src, cellW, cellH, imaging.Lanczos)

	var tile image.Image = thumb
	switch cfg.Effect {
	case EffectBevel:
		tile = addBeveledEdges(thumb, cfg.BevelWidth)
	case EffectRounded:
		tile = addRoundedCorners(thumb, cfg.CornerRadius)
	}

	if cfg.BorderPx > 0 {
		return borderedTile(tile, cellW, cellH, cfg.BorderPx)
	}

	cell := imaging.New(cellW, cellH, bg)
	return imaging.OverlayCenter(cell, tile, 1.0)
}

// borderedTile resizes the tile into the cell interior and surrounds it
// with a white border. When the border leaves no interior the cell stays
// plain white.
func borderedTile(tile image.Image, cellW, cellH, border int) *image.NRGBA {
	cell := imaging.New(cellW, cellH, color.White)
	innerW := cellW - 2*border
	innerH := cellH - 2*border
	if innerW <= 0 || innerH <= 0 {
		return cell
	}
	resized := imaging.Resize(tile, innerW, innerH, imaging.Lanczos)
	return imaging.Paste(cell, resized, image.Pt(border, border))
}
