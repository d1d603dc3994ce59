package poster

import (
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// listImages returns the JPEG/PNG files in folder, sorted by name so that
// layout results are stable across runs. The directory itself being
// unreadable is an IO error; an empty result is left for the caller to
// turn into NO_IMAGES with layout context.
func listImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read image folder %s", folder)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(folder, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// sampleImages applies the configured cap to the source set. Truncation
// keeps the first limit paths in input order; random sampling shuffles
// with the caller's seed and then truncates, so the same seed always
// drops the same images.
func sampleImages(paths []string, limit int, mode SampleMode, seed int64) []string {
	if limit <= 0 || limit >= len(paths) {
		return paths
	}
	if mode != SampleRandom {
		return paths[:limit]
	}

	shuffled := make([]string, len(paths))
	copy(shuffled, paths)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:limit]
}

// loadImage decodes one source image. A missing file is an IO error; a
// present but undecodable file is an IMAGE_DECODE error naming the path.
// Either aborts the whole layout operation - the engine never silently
// produces a partial poster.
func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, statErr, "read image %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode image %s", path)
	}
	return img, nil
}
