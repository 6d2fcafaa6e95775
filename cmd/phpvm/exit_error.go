// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"phpvm/internal/installer"
	"phpvm/internal/manifest"
)

// Exit codes beyond the generic failure, so scripts can distinguish "retry
// later" network failures from integrity failures that retrying won't fix.
const (
	exitFailure   = 1
	exitNetwork   = 2
	exitIntegrity = 3
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyExitCode maps a core error to its process exit code.
func classifyExitCode(err error) int {
	switch {
	case errors.Is(err, manifest.ErrUnavailable), errors.Is(err, installer.ErrDownloadFailed):
		return exitNetwork
	case errors.Is(err, installer.ErrChecksumMismatch), errors.Is(err, installer.ErrCorruptArchive):
		return exitIntegrity
	default:
		return exitFailure
	}
}
