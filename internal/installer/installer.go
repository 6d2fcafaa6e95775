// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"phpvm/internal/manifest"
	"phpvm/internal/store"

	"github.com/charmbracelet/log"
)

var (
	// ErrVersionNotFound indicates the requested version has no record in
	// the manifest.
	ErrVersionNotFound = errors.New("version not found in manifest")

	// ErrDownloadFailed indicates the artifact download failed on a
	// transport error or non-2xx status.
	ErrDownloadFailed = errors.New("artifact download failed")

	// ErrCorruptArchive indicates the archive extracted cleanly but the
	// expected entry point (bin/php) is missing from it.
	ErrCorruptArchive = errors.New("corrupt archive: entry point missing")
)

// Installer composes the manifest client and the version store into the
// end-to-end install pipeline: resolve record, download, verify, extract,
// validate. It is the primary facade for installing versions.
type Installer struct {
	store  *store.Store
	client *manifest.Client
}

// New creates an Installer writing into st and fetching via client.
func New(st *store.Store, client *manifest.Client) *Installer {
	return &Installer{store: st, client: client}
}

// Install downloads, verifies, and unpacks the given version into the store.
//
// The pipeline is strictly sequential:
//  1. Already installed → success immediately, no network access.
//  2. Fetch manifest, look up the record (ErrVersionNotFound if absent).
//  3. Download the artifact to a private temp file, never into the store.
//  4. Verify the SHA256 digest against the manifest record; a mismatch
//     aborts before any extraction.
//  5. Extract into a staging directory with one leading path component
//     stripped, then verify bin/php exists.
//  6. Atomically rename the staging directory into place.
//
// Temporary artifacts and the staging directory are removed on success and
// on every failure path, so the store never retains a version directory
// without a valid entry point.
func (i *Installer) Install(ctx context.Context, version string) error {
	if i.store.Exists(version) {
		log.Debug("version already installed", "version", version)
		return nil
	}

	m, err := i.client.Fetch(ctx)
	if err != nil {
		return err
	}

	rec, ok := m.Lookup(version)
	if !ok {
		return fmt.Errorf("version %q: %w", version, ErrVersionNotFound)
	}

	archivePath, err := i.downloadArtifact(ctx, rec)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(archivePath) }()

	log.Debug("verifying artifact", "version", version, "sha256", rec.SHA256)
	if err := verifyArtifact(archivePath, version, rec.SHA256); err != nil {
		return err
	}

	return i.extractIntoStore(archivePath, version)
}

// downloadArtifact streams the record's artifact into a temp file inside the
// versions directory, so the eventual staging rename stays on one filesystem.
// Any transport or HTTP failure is classified as ErrDownloadFailed.
func (i *Installer) downloadArtifact(ctx context.Context, rec manifest.Record) (_ string, err error) {
	if err := os.MkdirAll(i.store.VersionsDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating store directory: %w", err)
	}

	log.Debug("downloading artifact", "version", rec.Version, "url", rec.URL)

	body, err := i.client.Download(ctx, rec.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = body.Close() }() // read-only response body

	tmp, err := os.CreateTemp(i.store.VersionsDir(), ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		// Best-effort removal of the partially written temp file.
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: writing artifact: %w", ErrDownloadFailed, err)
	}

	return tmp.Name(), nil
}

// extractIntoStore unpacks the verified archive into a staging directory,
// checks the entry point, and renames the staging directory to its final
// location. Because the rename is the last step, a concurrent reader never
// observes a half-extracted version directory at the final path.
func (i *Installer) extractIntoStore(archivePath, version string) error {
	staging, err := os.MkdirTemp(i.store.VersionsDir(), ".staging-"+version+"-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	log.Debug("extracting artifact", "version", version, "staging", staging)
	if err := extractArchive(archivePath, staging); err != nil {
		return fmt.Errorf("extracting version %q: %w", version, err)
	}

	entry := filepath.Join(staging, filepath.FromSlash(store.EntryPointRelPath))
	if info, statErr := os.Stat(entry); statErr != nil || info.IsDir() {
		return fmt.Errorf("version %q: %w", version, ErrCorruptArchive)
	}

	if err := os.Rename(staging, i.store.VersionDir(version)); err != nil {
		return fmt.Errorf("moving version %q into store: %w", version, err)
	}

	log.Debug("version installed", "version", version, "dir", i.store.VersionDir(version))
	return nil
}
