package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:digest" cache key from arbitrary components.
// Components are JSON-encoded before hashing so structs and maps key
// deterministically. The full 256-bit digest is kept: API query params
// can differ by a single character and must never collide.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the SHA-256 digest of data as a 64-char hex string. Besides
// keying cache files, the poster engine uses it to fingerprint downscaled
// cover art for duplicate detection.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
