// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"phpvm/internal/activate"
	"phpvm/internal/issue"
	"phpvm/internal/store"

	"github.com/spf13/cobra"
)

// uninstallParams bundles the dependencies for the uninstall command.
type uninstallParams struct {
	stdout  io.Writer
	store   *store.Store
	dir     string
	version string
}

// newUninstallCommand creates the `phpvm uninstall` command, which removes
// an installed version from the store.
func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <version>",
		Short: "Remove an installed PHP version",
		Long: `Remove an installed PHP version.

Removal is refused while the version is the global default or pinned by
the ` + activate.PinFileName + ` file in the current directory. Pins in other
directories are not checked.`,
		Example: `  phpvm uninstall 8.1.0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cwd, err := os.Getwd()
			if err != nil {
				return reportError(cmd.ErrOrStderr(), fmt.Errorf("determining working directory: %w", err))
			}

			p := uninstallParams{
				stdout:  cmd.OutOrStdout(),
				store:   newStore(),
				dir:     cwd,
				version: args[0],
			}

			if err := runUninstall(p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runUninstall is the core removal logic, separated from Cobra for
// testability. The in-use guard runs before the unconditional remove.
func runUninstall(p uninstallParams) error {
	if err := activate.GuardRemove(p.store, p.dir, p.version); err != nil {
		return issue.NewErrorContext().
			WithOperation("uninstall version").
			WithResource(p.version).
			WithSuggestion("Run 'phpvm use <other-version>' to switch the global default first").
			Wrap(err).
			BuildError()
	}

	if err := p.store.Remove(p.version); err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "%s Uninstalled %s\n",
		SuccessStyle.Render("✓"), VersionStyle.Render(p.version))
	return nil
}
