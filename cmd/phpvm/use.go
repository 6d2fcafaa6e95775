// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"phpvm/internal/store"

	"github.com/spf13/cobra"
)

// useParams bundles the dependencies for the use command.
type useParams struct {
	stdout  io.Writer
	store   *store.Store
	version string
}

// newUseCommand creates the `phpvm use` command, which repoints the global
// "current" pointer at an installed version.
func newUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <version>",
		Short: "Set the global default PHP version",
		Long: `Set the global default PHP version.

The store's "current" symlink is repointed atomically at the installed
version's directory. A .php_version pin in a directory still overrides
the global default there.`,
		Example: `  phpvm use 8.3.0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			p := useParams{
				stdout:  cmd.OutOrStdout(),
				store:   newStore(),
				version: args[0],
			}

			if err := runUse(p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runUse is the core global-activation logic, separated from Cobra for testability.
func runUse(p useParams) error {
	if err := p.store.ActivateGlobal(p.version); err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "%s Now using %s (global)\n",
		SuccessStyle.Render("✓"), VersionStyle.Render(p.version))
	return nil
}
