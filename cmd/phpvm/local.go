// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"phpvm/internal/activate"
	"phpvm/internal/store"

	"github.com/spf13/cobra"
)

// localParams bundles the dependencies for the local command.
type localParams struct {
	stdout  io.Writer
	store   *store.Store
	dir     string
	version string
}

// newLocalCommand creates the `phpvm local` command, which pins a version
// for the current directory via a .php_version file.
func newLocalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "local <version>",
		Short: "Pin a PHP version for the current directory",
		Long: `Pin a PHP version for the current directory.

Writes the version identifier into a ` + activate.PinFileName + ` file in the
current directory, overwriting any prior pin. The pin always wins over
the global default, and is consulted only in this exact directory, never
in parent directories.`,
		Example: `  phpvm local 8.1.0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cwd, err := os.Getwd()
			if err != nil {
				return reportError(cmd.ErrOrStderr(), fmt.Errorf("determining working directory: %w", err))
			}

			p := localParams{
				stdout:  cmd.OutOrStdout(),
				store:   newStore(),
				dir:     cwd,
				version: args[0],
			}

			if err := runLocal(p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runLocal is the core pin-writing logic, separated from Cobra for testability.
func runLocal(p localParams) error {
	if err := activate.WriteLocal(p.store, p.dir, p.version); err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "%s Pinned %s in %s\n",
		SuccessStyle.Render("✓"), VersionStyle.Render(p.version), activate.PinPath(p.dir))
	return nil
}
