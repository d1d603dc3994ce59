package poster

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// parseHexColor parses a "#RRGGBB" or "#RGB" hex string into an opaque color.
// An empty string is rejected; callers should set an explicit background.
func parseHexColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidColor, "background color is empty")
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "cannot parse %q as hex color", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
