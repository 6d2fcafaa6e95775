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

// currentParams bundles the dependencies for the current command.
type currentParams struct {
	stdout io.Writer
	store  *store.Store
	dir    string
}

// newCurrentCommand creates the `phpvm current` command, which reports the
// effective active version and how it was resolved.
func newCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the effective active PHP version",
		Long: `Show the effective active PHP version.

A ` + activate.PinFileName + ` pin in the current directory wins over the global
pointer. With neither present, phpvm reports that no version is active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cwd, err := os.Getwd()
			if err != nil {
				return reportError(cmd.ErrOrStderr(), fmt.Errorf("determining working directory: %w", err))
			}

			p := currentParams{
				stdout: cmd.OutOrStdout(),
				store:  newStore(),
				dir:    cwd,
			}

			runCurrent(p)
			return nil
		},
	}
}

// runCurrent prints the resolution result. An absent active version is
// informational, not an error; the command still exits zero.
func runCurrent(p currentParams) {
	version, src, ok := activate.Resolve(p.store, p.dir)
	if !ok {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render("no active version"))
		return
	}

	fmt.Fprintf(p.stdout, "%s %s\n",
		VersionStyle.Render(version),
		SubtitleStyle.Render("(set by "+sourceLabel(p.store, src)+")"))

	// A pin may name a version that was never installed; that is legal at
	// resolution time but worth flagging.
	if !p.store.Exists(version) {
		fmt.Fprintf(p.stdout, "%s\n",
			WarningStyle.Render("Warning: "+version+" is not installed. Run 'phpvm install "+version+"'."))
	}
}
