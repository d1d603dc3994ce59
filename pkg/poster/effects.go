package poster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// addBeveledEdges softens the tile border: a rectangular mask inset from
// the edges by bevelWidth is Gaussian-blurred, then the sharp and blurred
// versions of the tile are blended through it. The result keeps the tile
// center crisp and fades the rim into a soft vignette.
func addBeveledEdges(img image.Image, bevelWidth int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if bevelWidth <= 0 || w <= 2*bevelWidth || h <= 2*bevelWidth {
		return imaging.Clone(img)
	}

	mask := image.NewNRGBA(image.Rect(0, 0, w, h))
	inner := image.Rect(bevelWidth, bevelWidth, w-bevelWidth, h-bevelWidth)
	draw.Draw(mask, inner, image.NewUniform(color.White), image.Point{}, draw.Src)
	blurredMask := imaging.Blur(mask, float64(bevelWidth))

	sharp := imaging.Clone(img)
	blurred := imaging.Blur(img, float64(bevelWidth))

	return blendThroughMask(sharp, blurred, blurredMask)
}

// blendThroughMask combines two equally sized images per pixel: where the
// mask is white the first image wins, where it is black the second does.
func blendThroughMask(a, b, mask *image.NRGBA) *image.NRGBA {
	bounds := a.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ai := a.PixOffset(x, y)
			bi := b.PixOffset(x, y)
			m := uint32(mask.Pix[mask.PixOffset(x, y)]) // red channel of a grey mask
			for c := 0; c < 4; c++ {
				av := uint32(a.Pix[ai+c])
				bv := uint32(b.Pix[bi+c])
				out.Pix[ai+c] = uint8((av*m + bv*(255-m)) / 255)
			}
		}
	}
	return out
}

// addRoundedCorners clips the tile to a rounded rectangle of the given
// corner radius; the corners outside the clip stay transparent so the
// cell background shows through after compositing.
func addRoundedCorners(img image.Image, radius int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if radius <= 0 {
		return img
	}

	dc := gg.NewContext(w, h)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), float64(radius))
	dc.Clip()
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}
