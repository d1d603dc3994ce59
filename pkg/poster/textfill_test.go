package poster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

func smallTextFillConfig() TextFillConfig {
	cfg := DefaultTextFillConfig()
	cfg.Text = "AB"
	cfg.Font.Size = 80
	cfg.PaddingPx = 20
	return cfg
}

func TestTextFill(t *testing.T) {
	dir := newImageDir(t, 2, 40, 40)
	out := filepath.Join(t.TempDir(), "out.png")

	img, err := TextFill(dir, out, smallTextFillConfig())
	if err != nil {
		t.Fatalf("TextFill: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		t.Fatalf("degenerate canvas %dx%d", b.Dx(), b.Dy())
	}

	// Corners lie outside the glyphs and keep the background.
	white := uint32(0xffff)
	r, g, bl, _ := img.At(1, 1).RGBA()
	if r != white || g != white || bl != white {
		t.Errorf("corner pixel = %v, want background white", img.At(1, 1))
	}

	// Somewhere inside the canvas the red tiles show through the mask.
	found := false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r > 0xe000 && g < 0x3000 && bl < 0x3000 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no tile pixels found inside the text mask")
	}
}

func TestTextFillEmptyText(t *testing.T) {
	dir := newImageDir(t, 1, 40, 40)
	cfg := smallTextFillConfig()
	cfg.Text = ""

	_, err := TextFill(dir, filepath.Join(t.TempDir(), "out.png"), cfg)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestTextFillEmptyFolder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	_, err := TextFill(t.TempDir(), out, smallTextFillConfig())
	if !errors.Is(err, errors.ErrCodeNoImages) {
		t.Fatalf("error = %v, want NO_IMAGES", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file was created despite the error")
	}
}

func TestTextFillScalesToCap(t *testing.T) {
	dir := newImageDir(t, 1, 40, 40)
	out := filepath.Join(t.TempDir(), "out.png")

	cfg := smallTextFillConfig()
	cfg.Font.Size = 400
	cfg.PaddingPx = 100
	cfg.MaxCanvasSide = 200

	img, err := TextFill(dir, out, cfg)
	if err != nil {
		t.Fatalf("TextFill: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 200 || b.Dy() > 200 {
		t.Errorf("canvas = %dx%d exceeds the 200px cap", b.Dx(), b.Dy())
	}
}
