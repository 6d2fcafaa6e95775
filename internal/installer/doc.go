// SPDX-License-Identifier: MPL-2.0

// Package installer implements the version installation pipeline: resolve a
// manifest record, download the artifact to a private temp file, verify its
// SHA256 digest, extract the tar.gz with one leading path component stripped,
// validate the bin/php entry point, and move the result atomically into the
// store.
//
// The package is organized into three concerns:
//   - installer.go: the Installer facade and pipeline sequencing
//   - checksum.go: SHA256 digest computation and verification
//   - extract.go: safe tar.gz extraction with component stripping
package installer
