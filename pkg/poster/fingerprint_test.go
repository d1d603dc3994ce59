package poster

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestFingerprint(t *testing.T) {
	a := imaging.New(120, 120, color.NRGBA{R: 255, A: 255})
	b := imaging.New(120, 120, color.NRGBA{R: 255, A: 255})
	c := imaging.New(120, 120, color.NRGBA{B: 255, A: 255})

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("identical images produced different fingerprints")
	}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("different images produced the same fingerprint")
	}

	// Fingerprinting normalizes size, so a scaled copy of a uniform image
	// matches the original.
	scaled := imaging.Resize(a, 60, 60, imaging.Lanczos)
	if Fingerprint(a) != Fingerprint(scaled) {
		t.Error("scaled uniform image produced a different fingerprint")
	}
}

func TestDedupImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "1_first.png"), 60, 60, red)
	writeImage(t, filepath.Join(dir, "2_other.png"), 60, 60, blue)
	writeImage(t, filepath.Join(dir, "3_dupe.png"), 60, 60, red)

	paths, err := listImages(dir)
	if err != nil {
		t.Fatal(err)
	}

	unique, err := dedupImages(paths)
	if err != nil {
		t.Fatalf("dedupImages: %v", err)
	}
	if len(unique) != 2 {
		t.Fatalf("kept %d paths, want 2: %v", len(unique), unique)
	}
	// First-seen order: the duplicate later in the listing is the one
	// dropped.
	if filepath.Base(unique[0]) != "1_first.png" || filepath.Base(unique[1]) != "2_other.png" {
		t.Errorf("unique = %v, want first-seen order", unique)
	}

	// Deduplication is idempotent.
	again, err := dedupImages(unique)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(unique) {
		t.Errorf("second pass changed the set: %v", again)
	}
}

func TestDedupImagesFailsFast(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "good.png"), 60, 60, red)

	_, err := dedupImages([]string{filepath.Join(dir, "good.png"), filepath.Join(dir, "missing.png")})
	if err == nil {
		t.Fatal("dedupImages should fail on an unreadable path")
	}
}
