// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxFileBytes is the upper bound on a single extracted file's size (500 MB).
// Prevents decompression bombs when unpacking a runtime archive.
const maxFileBytes = 500 << 20

// extractArchive unpacks the gzip-compressed tar archive at archivePath into
// destDir, stripping exactly one leading path component: the archive's single
// top-level directory (e.g. "php-8.1.0/") so that runtime files land directly
// under destDir.
//
// Entries whose stripped path would escape destDir are rejected, and symlink
// targets must stay inside the archive's own tree.
func extractArchive(archivePath, destDir string) (err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() {
		// Gzip reader wraps the underlying file; close errors are not
		// actionable since we only read from it.
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return fmt.Errorf("reading tar entry: %w", nextErr)
		}

		rel, ok := stripOneComponent(hdr.Name)
		if !ok {
			// The top-level directory entry itself, or garbage like "..".
			continue
		}
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("archive entry %q escapes the extraction directory", hdr.Name)
		}

		target := filepath.Join(destDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if mkErr := os.MkdirAll(target, os.FileMode(hdr.Mode)&0o777|0o700); mkErr != nil {
				return fmt.Errorf("creating directory %s: %w", rel, mkErr)
			}

		case tar.TypeReg:
			if wErr := writeFileEntry(target, tr, os.FileMode(hdr.Mode)); wErr != nil {
				return fmt.Errorf("extracting %s: %w", rel, wErr)
			}

		case tar.TypeSymlink:
			// Relative links only, and they must resolve inside destDir.
			// PHP distributions use these in bin/ (e.g. php -> php8.1).
			if filepath.IsAbs(hdr.Linkname) ||
				!filepath.IsLocal(filepath.Join(filepath.Dir(rel), hdr.Linkname)) {
				return fmt.Errorf("archive symlink %q has an unsafe target %q", hdr.Name, hdr.Linkname)
			}
			if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
				return fmt.Errorf("creating directory for %s: %w", rel, mkErr)
			}
			if lnErr := os.Symlink(hdr.Linkname, target); lnErr != nil {
				return fmt.Errorf("creating symlink %s: %w", rel, lnErr)
			}

		default:
			// Hard links, devices, FIFOs: nothing a runtime tarball
			// legitimately needs.
			continue
		}
	}

	return nil
}

// writeFileEntry writes one regular file entry from the tar stream, creating
// parent directories as needed and capping the read at maxFileBytes.
func writeFileEntry(target string, r io.Reader, mode os.FileMode) (err error) {
	if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
		return mkErr
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode&0o777)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(out, io.LimitReader(r, maxFileBytes)); err != nil {
		return err
	}
	return nil
}

// stripOneComponent drops the leading path component of a tar entry name and
// returns the remainder in slash-free (OS-native) form. ok is false when
// nothing remains after the strip.
func stripOneComponent(name string) (rel string, ok bool) {
	name = strings.TrimPrefix(path.Clean(name), "./")
	i := strings.IndexByte(name, '/')
	if i < 0 {
		return "", false
	}
	rest := strings.TrimLeft(name[i+1:], "/")
	if rest == "" || rest == "." {
		return "", false
	}
	return filepath.FromSlash(rest), true
}
