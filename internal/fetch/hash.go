// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // SHA-1 is the digest the distribution servers publish.
	"encoding/hex"
	"errors"
	"fmt"
)

// DigestSize is the length in bytes of a SHA-1 digest.
const DigestSize = sha1.Size

var (
	// ErrHashMismatch indicates downloaded or cached bytes do not match the expected digest.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrInvalidDigest indicates a digest string is not 40 hex characters.
	ErrInvalidDigest = errors.New("invalid digest")
)

type (
	// Digest is a raw SHA-1 digest. It marshals to and from lowercase hex, the
	// form used by manifests, version documents and asset indexes.
	Digest [DigestSize]byte

	// Hash is the expected-content check applied to cached and fetched bytes.
	// The zero value requests no verification and always verifies.
	Hash struct {
		digest Digest
		set    bool
	}

	// HashMismatchError provides details about a failed verification.
	// It wraps ErrHashMismatch so callers can use errors.Is for classification.
	HashMismatchError struct {
		URL      string
		Expected string
		Got      string
	}
)

// SHA1 returns a Hash that verifies content against d.
func SHA1(d Digest) Hash {
	return Hash{digest: d, set: true}
}

// NoHash returns a Hash that accepts any content.
func NoHash() Hash {
	return Hash{}
}

// IsSet reports whether the hash requests verification.
func (h Hash) IsSet() bool { return h.set }

// Digest returns the expected digest and whether one is set.
func (h Hash) Digest() (Digest, bool) { return h.digest, h.set }

// Verify reports whether data matches the expected digest. A Hash without a
// digest verifies any data.
func (h Hash) Verify(data []byte) bool {
	if !h.set {
		return true
	}
	sum := sha1.Sum(data) //nolint:gosec // See import comment.
	return bytes.Equal(sum[:], h.digest[:])
}

// String returns the hex digest, or "none" when no verification is requested.
func (h Hash) String() string {
	if !h.set {
		return "none"
	}
	return h.digest.String()
}

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	return Digest(sha1.Sum(data)) //nolint:gosec // See import comment.
}

// ParseDigest decodes a 40 character hex string.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(DigestSize) {
		return d, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidDigest, s, len(s), hex.EncodedLen(DigestSize))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("%w: %q: %w", ErrInvalidDigest, s, err)
	}
	return d, nil
}

// MustParseDigest is ParseDigest for constants; it panics on malformed input.
func MustParseDigest(s string) Digest {
	d, err := ParseDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Prefix returns the first two hex characters, used to shard asset objects.
func (d Digest) Prefix() string {
	return d.String()[:2]
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Error returns a human-readable description of the mismatch,
// showing both expected and actual digests for debugging.
func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash verification failed for %s\nExpected: %s\nGot:      %s", e.URL, e.Expected, e.Got)
}

// Unwrap returns ErrHashMismatch so callers can use errors.Is.
func (e *HashMismatchError) Unwrap() error { return ErrHashMismatch }

func mismatch(url string, h Hash, data []byte) *HashMismatchError {
	return &HashMismatchError{
		URL:      redactURL(url),
		Expected: h.String(),
		Got:      Sum(data).String(),
	}
}
