package poster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// extraBottomRatio adds breathing room under descenders, as a fraction of
// the font size.
const extraBottomRatio = 0.3

// minFillTile is the smallest tile edge used when filling text; below
// this the tiles read as noise.
const minFillTile = 10

// TextFillConfig describes a text-filled poster request: one large string
// rendered as a mask and filled with image tiles.
type TextFillConfig struct {
	Text          string
	Font          FontSpec
	PaddingPx     int
	Background    string
	MaxCanvasSide int
	Quality       int
}

// DefaultTextFillConfig returns the defaults for the text-filled layout.
func DefaultTextFillConfig() TextFillConfig {
	return TextFillConfig{
		Font:          FontSpec{Size: 1500},
		PaddingPx:     400,
		Background:    "#FFFFFF",
		MaxCanvasSide: 15000,
		Quality:       100,
	}
}

// TextFill renders cfg.Text as a mask and tiles the folder's images into
// the pixels the mask covers. The canvas is scaled down up front when the
// text at the requested font size would exceed MaxCanvasSide, bounding
// memory before any allocation. Tiles are placed in left-to-right,
// top-to-bottom scan order within the mask's bounding box; tiles whose
// region has no mask coverage are skipped. Mask boundaries can leave
// ragged gaps - this is accepted lossy behavior of the layout, kept
// rather than papered over.
func TextFill(folder, outPath string, cfg TextFillConfig) (image.Image, error) {
	if cfg.Text == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "text-fill poster needs a non-empty text")
	}
	bg, err := parseHexColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	fontSize := cfg.Font.Size
	if fontSize <= 0 {
		fontSize = 1500
	}
	face, err := loadFace(FontSpec{Name: cfg.Font.Name, Size: fontSize})
	if err != nil {
		return nil, err
	}

	textW, textH := measureString(face, cfg.Text)
	extraBottom := int(fontSize * extraBottomRatio)
	canvasW := int(textW) + 2*cfg.PaddingPx
	canvasH := int(textH) + 2*cfg.PaddingPx + extraBottom

	// Scale everything down before allocating anything when the canvas
	// would blow past the configured ceiling.
	if cfg.MaxCanvasSide > 0 && max(canvasW, canvasH) > cfg.MaxCanvasSide {
		factor := float64(cfg.MaxCanvasSide) / float64(max(canvasW, canvasH))
		canvasW = int(float64(canvasW) * factor)
		canvasH = int(float64(canvasH) * factor)
		fontSize *= factor
		face, err = loadFace(FontSpec{Name: cfg.Font.Name, Size: fontSize})
		if err != nil {
			return nil, err
		}
		textW, textH = measureString(face, cfg.Text)
		extraBottom = int(fontSize * extraBottomRatio)
	}

	paths, err := listImages(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNoImages, "no images found in %s", folder)
	}

	mask, bbox, err := renderTextMask(cfg.Text, face, canvasW, canvasH, textW, textH, extraBottom)
	if err != nil {
		return nil, err
	}

	maskedArea := bbox.Dx() * bbox.Dy()
	tileSize := int(math.Sqrt(float64(maskedArea) / float64(len(paths))))
	if tileSize < minFillTile {
		tileSize = minFillTile
	}

	// Decode and pre-scale each source once; placements cycle through
	// the set when the mask needs more tiles than there are images.
	tiles := make([]*image.NRGBA, len(paths))
	for i, path := range paths {
		src, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		tiles[i] = imaging.Resize(src, tileSize, tileSize, imaging.Lanczos)
	}

	canvas := imaging.New(canvasW, canvasH, bg)
	placed := 0
	for y := bbox.Min.Y; y < bbox.Max.Y; y += tileSize {
		for x := bbox.Min.X; x < bbox.Max.X; x += tileSize {
			region := image.Rect(x, y, x+tileSize, y+tileSize).Intersect(mask.Bounds())
			if !maskCovers(mask, region) {
				continue
			}
			tile := tiles[placed%len(tiles)]
			placed++
			draw.DrawMask(canvas, region, tile, image.Point{}, mask, region.Min, draw.Over)
		}
	}

	if err := save(canvas, outPath, cfg.Quality); err != nil {
		return nil, err
	}
	return canvas, nil
}

// renderTextMask draws the text centered on a transparent canvas and
// returns its alpha coverage plus the bounding box of covered pixels.
func renderTextMask(text string, face font.Face, canvasW, canvasH int, textW, textH float64, extraBottom int) (*image.Alpha, image.Rectangle, error) {
	dc := gg.NewContext(canvasW, canvasH)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	textX := (float64(canvasW) - textW) / 2
	textY := (float64(canvasH) - textH - float64(extraBottom)) / 2
	dc.DrawString(text, textX, textY+textH)

	rendered := dc.Image()
	mask := image.NewAlpha(rendered.Bounds())
	bbox := image.Rectangle{}
	for y := 0; y < canvasH; y++ {
		for x := 0; x < canvasW; x++ {
			_, _, _, a := rendered.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			mask.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
			px := image.Rect(x, y, x+1, y+1)
			if bbox.Empty() {
				bbox = px
			} else {
				bbox = bbox.Union(px)
			}
		}
	}

	if bbox.Empty() {
		return nil, bbox, errors.New(errors.ErrCodeInvalidConfig, "text %q rendered an empty mask", text)
	}
	return mask, bbox, nil
}

// maskCovers reports whether any pixel of the region has mask coverage.
func maskCovers(mask *image.Alpha, region image.Rectangle) bool {
	for y := region.Min.Y; y < region.Max.Y; y++ {
		row := mask.Pix[y*mask.Stride+region.Min.X : y*mask.Stride+region.Max.X]
		for _, a := range row {
			if a != 0 {
				return true
			}
		}
	}
	return false
}
