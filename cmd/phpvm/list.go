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

// listParams bundles the dependencies for the list command.
type listParams struct {
	stdout io.Writer
	store  *store.Store
	dir    string // working directory, for marking the pinned version
}

// newListCommand creates the `phpvm list` command, which prints the
// installed versions with the active one marked.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed PHP versions",
		Long: `List installed PHP versions.

The effective active version is marked with *, along with whether it
was resolved from the directory pin or the global pointer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cwd, err := os.Getwd()
			if err != nil {
				return reportError(cmd.ErrOrStderr(), fmt.Errorf("determining working directory: %w", err))
			}

			p := listParams{
				stdout: cmd.OutOrStdout(),
				store:  newStore(),
				dir:    cwd,
			}

			if err := runList(p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runList is the core listing logic, separated from Cobra for testability.
func runList(p listParams) error {
	versions, err := p.store.List()
	if err != nil {
		return err
	}

	if len(versions) == 0 {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render("No versions installed. Run 'phpvm install <version>' to add one."))
		return nil
	}

	active, src, hasActive := activate.Resolve(p.store, p.dir)

	for _, v := range versions {
		if hasActive && v == active {
			fmt.Fprintf(p.stdout, "%s %s %s\n",
				SuccessStyle.Render("*"),
				VersionStyle.Render(v),
				SubtitleStyle.Render("(set by "+sourceLabel(p.store, src)+")"))
			continue
		}
		fmt.Fprintf(p.stdout, "  %s\n", v)
	}

	return nil
}

// sourceLabel names the activation source the way shell users know it: the
// pin file name, or the global pointer path.
func sourceLabel(st *store.Store, src activate.Source) string {
	if src == activate.SourcePin {
		return activate.PinFileName
	}
	return st.GlobalLink()
}
