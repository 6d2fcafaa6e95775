// SPDX-License-Identifier: MPL-2.0

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// versionsDirName is the subdirectory of the store root that holds one
	// directory per installed version.
	versionsDirName = "versions"

	// currentLinkName is the global pointer: a symlink at the store root
	// targeting exactly one installed version's directory.
	currentLinkName = "current"
)

// EntryPointRelPath is the fixed relative path inside a version directory at
// which the runtime binary must exist for the installation to be valid.
const EntryPointRelPath = "bin/php"

var (
	// ErrNotInstalled indicates an operation referenced a version that is
	// absent from the store.
	ErrNotInstalled = errors.New("version is not installed")

	// ErrVersionInUse indicates an attempt to remove the currently active
	// version (global target or local pin).
	ErrVersionInUse = errors.New("version is in use")
)

// Store is the filesystem-backed registry of installed PHP versions under a
// single root directory. It exclusively owns the per-version directories and
// the global "current" pointer. The root is injected explicitly so tests can
// operate on temporary directories.
type Store struct {
	root string
}

// New creates a Store rooted at the given directory. The directory does not
// need to exist yet; mutating operations create what they need.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// VersionsDir returns the directory that holds installed version directories.
func (s *Store) VersionsDir() string {
	return filepath.Join(s.root, versionsDirName)
}

// VersionDir returns the installation directory for the given version.
func (s *Store) VersionDir(version string) string {
	return filepath.Join(s.VersionsDir(), version)
}

// EntryPoint returns the path at which the runtime binary must exist inside
// the given version's installation.
func (s *Store) EntryPoint(version string) string {
	return filepath.Join(s.VersionDir(version), filepath.FromSlash(EntryPointRelPath))
}

// GlobalLink returns the path of the global "current" pointer.
func (s *Store) GlobalLink() string {
	return filepath.Join(s.root, currentLinkName)
}

// Exists reports whether a directory for the given version is present in the
// store. It is a presence check only, with no content validation.
func (s *Store) Exists(version string) bool {
	info, err := os.Stat(s.VersionDir(version))
	return err == nil && info.IsDir()
}

// List enumerates the installed version identifiers, sorted ascending with
// semver-aware ordering (lexical fallback for identifiers that are not valid
// semver). The sort keeps user-visible output deterministic.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.VersionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing installed versions: %w", err)
	}

	var versions []string
	for _, e := range entries {
		// Staging directories from in-flight installs are dot-prefixed
		// and never valid versions.
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		versions = append(versions, e.Name())
	}

	slices.SortFunc(versions, CompareVersions)
	return versions, nil
}

// Remove recursively deletes the given version's directory. It fails with
// ErrNotInstalled if the version is absent. The in-use guard belongs to the
// caller; once invoked, Remove is unconditional.
func (s *Store) Remove(version string) error {
	if !s.Exists(version) {
		return fmt.Errorf("version %q: %w", version, ErrNotInstalled)
	}
	if err := os.RemoveAll(s.VersionDir(version)); err != nil {
		return fmt.Errorf("removing version %q: %w", version, err)
	}
	return nil
}

// CurrentGlobal dereferences the global pointer and returns the version it
// targets. It returns ok=false when the pointer is absent or dangling; a
// pointer whose target was removed is a detectable but non-fatal state.
func (s *Store) CurrentGlobal() (version string, ok bool) {
	target, err := os.Readlink(s.GlobalLink())
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.root, target)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return "", false
	}
	return filepath.Base(target), true
}

// ActivateGlobal repoints the global pointer at the given version's
// directory. It fails with ErrNotInstalled if the version is absent.
// The pointer is replaced atomically: a temporary symlink is created and
// renamed over the old one, so two pointers never coexist and a reader
// never observes a missing pointer mid-switch.
func (s *Store) ActivateGlobal(version string) error {
	if !s.Exists(version) {
		return fmt.Errorf("version %q: %w", version, ErrNotInstalled)
	}

	link := s.GlobalLink()
	tmp := link + ".tmp"

	// A stale temp link from an interrupted activation would make
	// os.Symlink fail; clear it first.
	_ = os.Remove(tmp)

	if err := os.Symlink(s.VersionDir(version), tmp); err != nil {
		return fmt.Errorf("creating global pointer: %w", err)
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing global pointer: %w", err)
	}
	return nil
}

// CompareVersions orders version identifiers for display: semver-aware when
// both sides parse as semantic versions, lexical otherwise.
func CompareVersions(a, b string) int {
	av, bv := "v"+a, "v"+b
	if semver.IsValid(av) && semver.IsValid(bv) {
		if c := semver.Compare(av, bv); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}
