package poster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// GridShape identifies a grid by its row and column count.
type GridShape struct {
	Rows int
	Cols int
}

// Override adjusts text and logo placement for one grid shape. Posters of
// certain shapes need hand-tuned spacing that the generic centering rules
// get wrong; the table is consulted read-only at layout time. Fields are
// pointers so a partial override keeps the generic value for every field
// it leaves out.
type Override struct {
	TopMargin        *int     `yaml:"top_margin"`
	TitleOffset      *int     `yaml:"title_offset"`
	SubtitleOffset   *int     `yaml:"subtitle_offset"`
	BlockOffset      *int     `yaml:"block_offset"`
	TitleFontSize    *float64 `yaml:"title_font_size"`
	SubtitleFontSize *float64 `yaml:"subtitle_font_size"`
	LogoSize         *int     `yaml:"logo_size"`
	LogoOffset       *int     `yaml:"logo_offset"`
}

// OverrideTable maps grid shapes to placement overrides.
type OverrideTable map[GridShape]Override

// lookup returns the override for the shape, or ok=false when the generic
// placement rules apply.
func (t OverrideTable) lookup(rows, cols int) (Override, bool) {
	if t == nil {
		return Override{}, false
	}
	o, ok := t[GridShape{Rows: rows, Cols: cols}]
	return o, ok
}

// DefaultOverrides returns the built-in placement table. The tuned shapes
// are the ones the billboard layout most commonly produces.
func DefaultOverrides() OverrideTable {
	return OverrideTable{
		{Rows: 8, Cols: 10}: {
			TopMargin:        intRef(400),
			TitleOffset:      intRef(50),
			SubtitleOffset:   intRef(70),
			BlockOffset:      intRef(50),
			TitleFontSize:    floatRef(350),
			SubtitleFontSize: floatRef(220),
			LogoSize:         intRef(350),
			LogoOffset:       intRef(0),
		},
		{Rows: 3, Cols: 3}: {
			TopMargin:        intRef(300),
			TitleOffset:      intRef(-150),
			SubtitleOffset:   intRef(60),
			BlockOffset:      intRef(-70),
			TitleFontSize:    floatRef(180),
			SubtitleFontSize: floatRef(130),
			LogoSize:         intRef(150),
			LogoOffset:       intRef(20),
		},
	}
}

func intRef(v int) *int           { return &v }
func floatRef(v float64) *float64 { return &v }

// applyInt overwrites dst when the override field is present.
func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// LoadOverrides reads an override table from a YAML file. Keys are grid
// shapes written as "RxC", e.g.:
//
//	"8x10":
//	  top_margin: 400
//	  title_font_size: 350
func LoadOverrides(path string) (OverrideTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read overrides %s", path)
	}

	raw := map[string]Override{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse overrides %s", path)
	}

	table := OverrideTable{}
	for key, o := range raw {
		var rows, cols int
		if _, err := fmt.Sscanf(key, "%dx%d", &rows, &cols); err != nil || rows <= 0 || cols <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid grid shape key %q (want RxC)", key)
		}
		table[GridShape{Rows: rows, Cols: cols}] = o
	}
	return table, nil
}
