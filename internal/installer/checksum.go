// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrChecksumMismatch indicates the computed SHA256 digest of a downloaded
// artifact does not match the digest declared in the manifest. It is always
// fatal and never bypassed.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
type ChecksumError struct {
	Version  string
	Expected string
	Got      string
}

// Error returns a human-readable description of the checksum mismatch,
// showing both expected and actual digest values for debugging.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for version %s\nExpected: %s\nGot:      %s",
		e.Version, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// verifyArtifact computes the SHA256 digest of the file at path and compares
// it, as lowercase hex, against the manifest-declared digest. Returns a
// *ChecksumError wrapping ErrChecksumMismatch on any difference.
func verifyArtifact(path, version, expected string) error {
	got, err := computeFileHash(path)
	if err != nil {
		return err
	}

	if got != strings.ToLower(expected) {
		return &ChecksumError{
			Version:  version,
			Expected: strings.ToLower(expected),
			Got:      got,
		}
	}

	return nil
}

// computeFileHash computes and returns the lowercase hex-encoded SHA256
// digest of the file at path. It streams the file through the hash function
// to avoid loading the entire artifact into memory.
func computeFileHash(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
