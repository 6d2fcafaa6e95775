// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"phpvm/internal/installer"
	"phpvm/internal/manifest"
	"phpvm/internal/store"
)

func TestForError_MapsTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"manifest unavailable", fmt.Errorf("fetch: %w", manifest.ErrUnavailable), ManifestUnavailableId},
		{"manifest parse", fmt.Errorf("fetch: %w", manifest.ErrParse), ManifestParseErrorId},
		{"version not found", fmt.Errorf("install: %w", installer.ErrVersionNotFound), VersionNotFoundId},
		{"download failed", fmt.Errorf("install: %w", installer.ErrDownloadFailed), DownloadFailedId},
		{"checksum mismatch", &installer.ChecksumError{Version: "8.1.0"}, ChecksumMismatchId},
		{"corrupt archive", fmt.Errorf("install: %w", installer.ErrCorruptArchive), CorruptArchiveId},
		{"not installed", fmt.Errorf("use: %w", store.ErrNotInstalled), NotInstalledId},
		{"version in use", fmt.Errorf("uninstall: %w", store.ErrVersionInUse), VersionInUseId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			iss, ok := ForError(tt.err)
			if !ok {
				t.Fatal("expected a registered issue")
			}
			if iss.Id() != tt.want {
				t.Errorf("got issue %d, want %d", iss.Id(), tt.want)
			}
		})
	}
}

func TestForError_UnknownError(t *testing.T) {
	t.Parallel()

	if _, ok := ForError(errors.New("something else")); ok {
		t.Error("errors outside the taxonomy must not map to an issue")
	}
}

func TestEveryIssueHasDocLinks(t *testing.T) {
	t.Parallel()

	for _, iss := range Values() {
		if len(iss.DocLinks()) == 0 {
			t.Errorf("issue %d has no doc links", iss.Id())
		}
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	ae := NewErrorContext().
		WithOperation("fetch version manifest").
		WithResource("https://releases.phpvm.dev/manifest.json").
		WithSuggestion("Check your network connection").
		Wrap(cause).
		Build()

	short := ae.Format(false)
	if !strings.Contains(short, "failed to fetch version manifest") {
		t.Errorf("short format missing operation: %q", short)
	}
	if !strings.Contains(short, "Check your network connection") {
		t.Errorf("short format missing suggestion: %q", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Error("short format must not include the error chain")
	}

	long := ae.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "connection refused") {
		t.Errorf("verbose format missing error chain: %q", long)
	}

	if !errors.Is(ae, cause) {
		t.Error("ActionableError must unwrap to its cause")
	}
}

func TestErrorContext_RequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("8.1.0").BuildError(); err != nil {
		t.Errorf("builder without operation must produce nil, got %v", err)
	}
}
