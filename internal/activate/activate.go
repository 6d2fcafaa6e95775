// SPDX-License-Identifier: MPL-2.0

package activate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phpvm/internal/store"

	"github.com/charmbracelet/log"
)

// PinFileName is the per-directory pin file consulted during resolution.
const PinFileName = ".php_version"

// Source describes how the effective version was resolved.
type Source int

const (
	// SourceNone means neither a pin nor a global pointer was found.
	SourceNone Source = iota
	// SourcePin means a .php_version file in the working directory decided.
	SourcePin
	// SourceGlobal means the store's global "current" pointer decided.
	SourceGlobal
)

// String returns a short human-readable label for the source.
func (s Source) String() string {
	switch s {
	case SourcePin:
		return PinFileName
	case SourceGlobal:
		return "global"
	default:
		return "none"
	}
}

// PinPath returns the path of the pin file for the given directory.
func PinPath(dir string) string {
	return filepath.Join(dir, PinFileName)
}

// Resolve determines the effective active version for the given working
// directory. A pin file in exactly that directory (no ancestor search) wins
// unconditionally over the global pointer; its content is not validated
// against the store at resolution time. With no pin, the global pointer
// decides. ok is false when neither exists.
func Resolve(st *store.Store, dir string) (version string, src Source, ok bool) {
	if pinned, found := readPin(dir); found {
		return pinned, SourcePin, true
	}

	if current, found := st.CurrentGlobal(); found {
		return current, SourceGlobal, true
	}

	return "", SourceNone, false
}

// WriteLocal pins the given version for the directory by writing the pin
// file, overwriting any prior content. It fails with store.ErrNotInstalled
// when the version is absent from the store. The write goes through a temp
// file and rename so a concurrent reader never sees a torn pin.
func WriteLocal(st *store.Store, dir, version string) (err error) {
	if !st.Exists(version) {
		return fmt.Errorf("version %q: %w", version, store.ErrNotInstalled)
	}

	tmp, err := os.CreateTemp(dir, PinFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating pin file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(version + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing pin file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing pin file: %w", err)
	}

	if err = os.Rename(tmp.Name(), PinPath(dir)); err != nil {
		return fmt.Errorf("replacing pin file: %w", err)
	}

	log.Debug("local pin written", "dir", dir, "version", version)
	return nil
}

// GuardRemove reports whether the version may be removed from the store,
// given the caller's working directory. It fails with store.ErrVersionInUse
// when the version is the global target or the pin value in that directory.
//
// The pin check deliberately covers only the caller's working directory, not
// every directory that might pin this version, a known limitation carried
// over from the original activation semantics.
func GuardRemove(st *store.Store, dir, version string) error {
	if current, ok := st.CurrentGlobal(); ok && current == version {
		return fmt.Errorf("version %q is the active global version: %w", version, store.ErrVersionInUse)
	}
	if pinned, ok := readPin(dir); ok && pinned == version {
		return fmt.Errorf("version %q is pinned by %s here: %w", version, PinFileName, store.ErrVersionInUse)
	}
	return nil
}

// readPin reads and trims the pin file in dir. An unreadable or
// empty-after-trim pin counts as absent.
func readPin(dir string) (version string, ok bool) {
	data, err := os.ReadFile(PinPath(dir))
	if err != nil {
		return "", false
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
