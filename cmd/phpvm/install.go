// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"phpvm/internal/installer"
	"phpvm/internal/issue"
	"phpvm/internal/store"

	"github.com/spf13/cobra"
)

// installParams bundles the dependencies for the install command, enabling
// the core logic in runInstall to be tested without a real Cobra command or
// live endpoints.
type installParams struct {
	stdout    io.Writer
	store     *store.Store
	installer *installer.Installer
	version   string
}

// newInstallCommand creates the `phpvm install` command, which downloads,
// verifies, and unpacks a version into the store.
func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <version>",
		Short: "Download, verify, and install a PHP version",
		Long: `Download, verify, and install a PHP version.

The artifact is downloaded to a private temporary location, its SHA256
digest is checked against the version manifest, and only a verified
archive is unpacked into the store. Installing an already-installed
version is a no-op and performs no network access.`,
		Example: `  # Install a version
  phpvm install 8.3.0

  # Then make it the default
  phpvm use 8.3.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			st := newStore()
			p := installParams{
				stdout:    cmd.OutOrStdout(),
				store:     st,
				installer: newInstaller(st),
				version:   args[0],
			}

			if err := runInstall(cmd.Context(), p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runInstall is the core install logic, separated from Cobra for testability.
func runInstall(ctx context.Context, p installParams) error {
	alreadyInstalled := p.store.Exists(p.version)

	if err := p.installer.Install(ctx, p.version); err != nil {
		return issue.NewErrorContext().
			WithOperation("install version").
			WithResource(p.version).
			WithSuggestion("Run 'phpvm list-remote' to see installable versions").
			Wrap(err).
			BuildError()
	}

	if alreadyInstalled {
		fmt.Fprintf(p.stdout, "%s %s is already installed\n",
			SuccessStyle.Render("✓"), VersionStyle.Render(p.version))
		return nil
	}

	fmt.Fprintf(p.stdout, "%s Installed %s to %s\n",
		SuccessStyle.Render("✓"), VersionStyle.Render(p.version), p.store.VersionDir(p.version))
	fmt.Fprintf(p.stdout, "%s\n", SubtitleStyle.Render("Run 'phpvm use "+p.version+"' to make it the default."))
	return nil
}
