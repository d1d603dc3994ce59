package poster

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/streamlytics/streamlytics/pkg/cache"
)

// fingerprintSize is the square edge of the downscaled image the
// fingerprint is computed from. Small enough to ignore compression
// artifacts between copies of the same cover, large enough that distinct
// covers do not collide.
const fingerprintSize = 50

// Fingerprint computes a perceptual fingerprint for exact-duplicate
// detection: the image is downscaled to a fixed size, converted to
// greyscale, and the pixel buffer hashed. Fingerprint equality implies
// duplicate; there is no perceptual-distance tolerance.
func Fingerprint(img image.Image) string {
	small := imaging.Resize(imaging.Grayscale(img), fingerprintSize, fingerprintSize, imaging.Lanczos)
	return cache.Hash(small.Pix)
}

// dedupImages decodes each path, fingerprints it, and returns the paths
// whose fingerprint has not been seen before, preserving first-seen order.
// Decode failures abort the whole operation.
func dedupImages(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var unique []string

	for _, path := range paths {
		img, err := loadImage(path)
		if err != nil {
			return nil, err
		}
		fp := Fingerprint(img)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		unique = append(unique, path)
	}
	return unique, nil
}
