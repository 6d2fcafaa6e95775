// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"phpvm/internal/config"
	"phpvm/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgDir allows specifying a custom config directory
	cfgDir string

	// cfg is the configuration loaded during initialization.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "phpvm",
		Short: "A PHP runtime version manager",
		Long: TitleStyle.Render("phpvm") + SubtitleStyle.Render(" - A PHP runtime version manager") + `

phpvm installs isolated PHP builds under a single root directory and
switches the active one per shell (global pointer) or per directory
(.php_version pin). Artifacts are verified against the SHA256 digest
declared in the signed version manifest before anything is unpacked.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'phpvm init' to set up the root layout
  2. Run 'phpvm install 8.3.0' to install a version
  3. Run 'phpvm use 8.3.0' to make it the default

` + SubtitleStyle.Render("Examples:") + `
  phpvm list-remote         Show installable versions
  phpvm install 8.3.0       Download, verify, and install
  phpvm local 8.1.0         Pin 8.1.0 for the current directory
  phpvm current             Show the effective active version`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "config directory (default is $HOME/.config/phpvm)")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newUseCommand())
	rootCmd.AddCommand(newLocalCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newListRemoteCommand())
	rootCmd.AddCommand(newCurrentCommand())
	rootCmd.AddCommand(newUninstallCommand())
	rootCmd.AddCommand(newInitCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file and environment variables if set.
func initRootConfig() {
	if cfgDir != "" {
		config.SetConfigDirOverride(cfgDir)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	loaded, err := config.Load()
	if err != nil {
		// Surface config loading problems but keep going on defaults;
		// every command still works against the default root.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
	}
	if loaded != nil {
		cfg = loaded
	}
}

// activeConfig returns the loaded configuration, falling back to defaults
// when initialization has not run (e.g. in tests that call run functions
// directly).
func activeConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// reportError prints a user-facing diagnostic for err and converts it into
// an ExitError carrying the classified exit code. Non-verbose output is a
// one-line message; verbose output adds suggestions, the error chain, and
// rendered guidance for known failure classes.
func reportError(stderr io.Writer, err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+ae.Format(verbose))
	} else {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
	}

	if verbose {
		if iss, ok := issue.ForError(err); ok {
			if guidance, rerr := iss.Render("auto"); rerr == nil {
				fmt.Fprintln(stderr, guidance)
			}
		}
	}

	return &ExitError{Code: classifyExitCode(err), Err: err}
}
