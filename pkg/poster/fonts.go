package poster

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// resolveFont returns the raw TTF bytes for a font spec name.
//
// Resolution order:
//   - empty name: the embedded Go Regular face, so posters render without
//     any font files installed
//   - a path (contains a separator or names an existing file): read it
//   - anything else: search installed system fonts by family name
//
// A name that cannot be resolved fails with FONT_NOT_FOUND before any
// compositing begins.
func resolveFont(name string) ([]byte, error) {
	if name == "" {
		return goregular.TTF, nil
	}

	if strings.ContainsRune(name, os.PathSeparator) || fileExists(name) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "font file %s", name)
		}
		return data, nil
	}

	path, err := findfont.Find(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "font %q not installed", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "font file %s", path)
	}
	return data, nil
}

// loadFace resolves and parses a font spec into a sized face.
func loadFace(spec FontSpec) (font.Face, error) {
	data, err := resolveFont(spec.Name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %q", spec.Name)
	}
	size := spec.Size
	if size <= 0 {
		size = 12
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// ListFonts returns the TrueType fonts available to the engine: any .ttf
// files in dir (if non-empty) followed by installed system fonts. The
// result is sorted and de-duplicated.
func ListFonts(dir string) ([]string, error) {
	seen := map[string]bool{}
	var fonts []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			fonts = append(fonts, path)
		}
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "font folder %s", dir)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(e.Name()), ".ttf") {
				add(filepath.Join(dir, e.Name()))
			}
		}
	}

	for _, path := range findfont.List() {
		if strings.EqualFold(filepath.Ext(path), ".ttf") {
			add(path)
		}
	}

	sort.Strings(fonts)
	return fonts, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
