package copycheck

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// fingerprintDigestLen is the number of hex characters of the SHA-256
// digest included in a fingerprint.
const fingerprintDigestLen = 16

// GenerateFingerprint derives a content-addressable identifier for a file:
// name, byte size and last-modified timestamp joined with the first 16 hex
// characters of a SHA-256 digest of the content. Used for duplicate/identity
// tracking only, not cryptographic integrity.
// A read failure while hashing is fatal and propagates to the caller.
func GenerateFingerprint(name string, size int64, modified time.Time, content io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, content); err != nil {
		return "", fmt.Errorf("copycheck: fingerprint digest: %w", err)
	}
	digest := hex.EncodeToString(h.Sum(nil))[:fingerprintDigestLen]
	return fmt.Sprintf("%s-%d-%d-%s", name, size, modified.UnixMilli(), digest), nil
}

// fingerprintFor resolves the fingerprint for a request: the override wins,
// otherwise the file content is hashed. Returns "" when there is nothing to
// fingerprint (URL-only check with no downloaded bytes).
func fingerprintFor(req CheckRequest, file *FileUpload) (string, error) {
	if req.FingerprintOverride != "" {
		return req.FingerprintOverride, nil
	}
	if file == nil {
		return "", nil
	}
	return GenerateFingerprint(file.Name, file.Size, file.Modified, bytes.NewReader(file.Data))
}

// dupThreshold is the maximum Hamming distance between two dHash values
// below which two uploads are considered perceptually identical.
const dupThreshold = 10

// PerceptualHash computes a difference hash of an image upload for
// perceptual duplicate tracking. Returns "" when the bytes do not decode as
// an image or hashing fails (graceful degradation — the byte-level
// fingerprint still identifies the upload).
func PerceptualHash(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return ""
	}
	return hash.ToString()
}

// DuplicateTracker remembers perceptual hashes of accepted uploads and flags
// re-uploads of visually identical content. Safe for concurrent use.
type DuplicateTracker struct {
	mu     sync.Mutex
	hashes []*goimagehash.ImageHash
}

// Seen reports whether data is perceptually identical to a previously
// tracked upload. Unique uploads are recorded for future comparisons.
// Undecodable or unhashable content is never treated as a duplicate.
func (d *DuplicateTracker) Seen(data []byte) bool {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return false
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, h := range d.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < dupThreshold {
			return true
		}
	}

	d.hashes = append(d.hashes, hash)
	return false
}
