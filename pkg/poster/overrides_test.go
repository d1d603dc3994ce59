package poster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

func TestOverrideLookup(t *testing.T) {
	table := DefaultOverrides()

	ov, ok := table.lookup(8, 10)
	if !ok {
		t.Fatal("expected an override for 8x10")
	}
	if *ov.TopMargin != 400 || *ov.TitleFontSize != 350 {
		t.Errorf("8x10 override = %+v", ov)
	}

	if _, ok := table.lookup(7, 7); ok {
		t.Error("7x7 should use the generic placement rules")
	}

	var nilTable OverrideTable
	if _, ok := nilTable.lookup(8, 10); ok {
		t.Error("nil table lookup should miss")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	content := `
"8x10":
  top_margin: 420
  title_font_size: 300
  logo_size: 200
"3x3":
  top_margin: 250
  block_offset: -50
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("loaded %d shapes, want 2", len(table))
	}

	ov, ok := table.lookup(8, 10)
	if !ok {
		t.Fatal("8x10 missing from loaded table")
	}
	if *ov.TopMargin != 420 || *ov.TitleFontSize != 300 || *ov.LogoSize != 200 {
		t.Errorf("8x10 = %+v", ov)
	}
	// Fields absent from the YAML stay nil so the generic values apply.
	if ov.SubtitleOffset != nil || ov.LogoOffset != nil {
		t.Errorf("absent 8x10 fields should be nil, got %+v", ov)
	}
	if ov, _ := table.lookup(3, 3); *ov.BlockOffset != -50 {
		t.Errorf("3x3 block offset = %d, want -50", *ov.BlockOffset)
	}
}

func TestApplyInt(t *testing.T) {
	v := 30
	applyInt(&v, nil)
	if v != 30 {
		t.Errorf("nil override changed value to %d", v)
	}
	applyInt(&v, intRef(0))
	if v != 0 {
		t.Errorf("explicit zero override not applied, got %d", v)
	}
	applyInt(&v, intRef(-150))
	if v != -150 {
		t.Errorf("negative override not applied, got %d", v)
	}
}

func TestLoadOverridesBadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	if err := os.WriteFile(path, []byte("\"wide\":\n  top_margin: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadOverrides(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	_, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("error = %v, want IO_ERROR", err)
	}
}
