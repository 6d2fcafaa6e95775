// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"phpvm/internal/config"
	"phpvm/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// initParams bundles the dependencies for the init command.
type initParams struct {
	stdout io.Writer
	store  *store.Store
}

// newInitCommand creates the `phpvm init` command, which bootstraps the
// store layout and the default config file, then prints shell setup guidance.
func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Set up the phpvm root directory and config file",
		Long: `Set up the phpvm root directory and config file.

Creates the store layout (versions directory) under the root, writes a
default config.toml if none exists, and prints the PATH setup needed to
put the active version's binaries on your shell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			p := initParams{
				stdout: cmd.OutOrStdout(),
				store:  newStore(),
			}

			if err := runInit(p); err != nil {
				return reportError(cmd.ErrOrStderr(), err)
			}
			return nil
		},
	}
}

// runInit is the core bootstrap logic, separated from Cobra for testability.
func runInit(p initParams) error {
	if err := os.MkdirAll(p.store.VersionsDir(), 0o755); err != nil {
		return fmt.Errorf("creating store layout: %w", err)
	}

	cfgPath, created, err := config.WriteDefaultFile()
	if err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "%s Store ready at %s\n", SuccessStyle.Render("✓"), p.store.Root())
	if created {
		fmt.Fprintf(p.stdout, "%s Wrote default config to %s\n", SuccessStyle.Render("✓"), cfgPath)
	} else {
		fmt.Fprintf(p.stdout, "%s Config already present at %s\n", SuccessStyle.Render("✓"), cfgPath)
	}

	guidance := fmt.Sprintf(setupGuidanceMd, p.store.GlobalLink())
	if rendered, rerr := glamour.Render(guidance, "auto"); rerr == nil {
		fmt.Fprint(p.stdout, rendered)
	} else {
		// Markdown renderers can fail on exotic terminals; the raw text
		// is still perfectly readable.
		fmt.Fprint(p.stdout, guidance)
	}

	return nil
}

// setupGuidanceMd is the post-init shell guidance; %s is the global pointer path.
const setupGuidanceMd = `
## Next steps

Add the active version to your PATH in your shell profile:

` + "```sh" + `
export PATH="%s/bin:$PATH"
` + "```" + `

Then install and select a version:

` + "```sh" + `
phpvm install 8.3.0
phpvm use 8.3.0
php --version
` + "```" + `
`
