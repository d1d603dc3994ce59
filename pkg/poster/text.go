package poster

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// textBlock holds the loaded faces and measured extents for the title and
// subtitle. Faces are loaded and strings measured before any source image
// is decoded, so font problems surface as configuration errors up front.
type textBlock struct {
	titleFace    font.Face
	subtitleFace font.Face
	titleW       float64
	titleH       float64
	subtitleW    float64
	subtitleH    float64
}

// measureTextBlock loads both faces and measures the rendered bounding box
// of each string. Empty strings measure as zero and take no vertical space.
func measureTextBlock(cfg Config) (*textBlock, error) {
	titleFace, err := loadFace(cfg.TitleFont)
	if err != nil {
		return nil, err
	}
	subtitleFace, err := loadFace(cfg.SubtitleFont)
	if err != nil {
		return nil, err
	}

	tb := &textBlock{titleFace: titleFace, subtitleFace: subtitleFace}
	if cfg.Title != "" {
		tb.titleW, tb.titleH = measureString(titleFace, cfg.Title)
	}
	if cfg.Subtitle != "" {
		tb.subtitleW, tb.subtitleH = measureString(subtitleFace, cfg.Subtitle)
	}
	return tb, nil
}

// height returns the total vertical extent of the text block: title,
// gap, subtitle, and trailing gap before the image grid. An entirely
// empty block has zero height.
func (tb *textBlock) height(cfg Config) int {
	if cfg.Title == "" && cfg.Subtitle == "" {
		return 0
	}
	h := int(tb.titleH)
	if cfg.Title != "" && cfg.Subtitle != "" {
		h += cfg.TitleGap
	}
	h += int(tb.subtitleH) + cfg.SubtitleGap
	return h
}

// draw renders the title and subtitle horizontally centered on the canvas,
// title at y, subtitle below it by the configured gap. It returns the
// Y-coordinate at which the image grid region begins.
func (tb *textBlock) draw(dc *gg.Context, cfg Config, y int) int {
	width := float64(dc.Width())
	dc.SetRGB(0, 0, 0)

	if cfg.Title != "" {
		dc.SetFontFace(tb.titleFace)
		dc.DrawString(cfg.Title, (width-tb.titleW)/2, float64(y)+tb.titleH)
		y += int(tb.titleH)
		if cfg.Subtitle != "" {
			y += cfg.TitleGap
		}
	}
	if cfg.Subtitle != "" {
		dc.SetFontFace(tb.subtitleFace)
		dc.DrawString(cfg.Subtitle, (width-tb.subtitleW)/2, float64(y)+tb.subtitleH)
		y += int(tb.subtitleH)
	}
	if cfg.Title != "" || cfg.Subtitle != "" {
		y += cfg.SubtitleGap
	}
	return y
}

// measureString returns the rendered width and height of s in the face.
func measureString(face font.Face, s string) (w, h float64) {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return dc.MeasureString(s)
}
