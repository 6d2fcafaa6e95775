// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"phpvm/internal/manifest"
	"phpvm/internal/store"

	"github.com/spf13/cobra"
)

// listRemoteParams bundles the dependencies for the list-remote command.
type listRemoteParams struct {
	stdout io.Writer
	store  *store.Store
	client *manifest.Client
}

// newListRemoteCommand creates the `phpvm list-remote` command, which
// fetches the manifest and prints the installable versions.
func newListRemoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-remote",
		Short: "List PHP versions available for installation",
		Long: `List PHP versions available for installation.

Fetches the version manifest (primary endpoint, then the mirror) and
prints every version it declares, newest first. Versions already in the
store are marked as installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			p := listRemoteParams{
				stdout: cmd.OutOrStdout(),
				store:  newStore(),
				client: newManifestClient(),
			}

			if err := runListRemote(cmd.Context(), p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runListRemote is the core remote-listing logic, separated from Cobra for
// testability.
func runListRemote(ctx context.Context, p listRemoteParams) error {
	m, err := p.client.Fetch(ctx)
	if err != nil {
		return err
	}

	versions := make([]string, 0, len(m.Versions))
	for _, rec := range m.Versions {
		versions = append(versions, rec.Version)
	}

	// Newest first for remote listings; installed listings sort ascending.
	slices.SortFunc(versions, func(a, b string) int {
		return store.CompareVersions(b, a)
	})

	for _, v := range versions {
		if p.store.Exists(v) {
			fmt.Fprintf(p.stdout, "%s %s\n", VersionStyle.Render(v), SubtitleStyle.Render("(installed)"))
			continue
		}
		fmt.Fprintf(p.stdout, "%s\n", v)
	}

	return nil
}
