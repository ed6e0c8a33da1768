// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/report"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every command.
type rootFlagValues struct {
	verbose     bool
	configPath  string
	root        string
	metricsFile string
	format      string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "jpmsdeps",
		Short: "Derive build dependencies from Java module descriptors",
		Long: TitleStyle.Render("jpmsdeps") + SubtitleStyle.Render(" - Derive build dependencies from Java module descriptors") + `

jpmsdeps reads the module-info.java files of a multi-unit Java build, maps
every required module name to a group:artifact coordinate and prints the
dependency declarations each build unit and source set needs.

Module names are mapped by explicit overrides, then by module name prefix
rules, then by the bundled baseline tables.

` + SubtitleStyle.Render("Examples:") + `
  jpmsdeps ga com.fasterxml.jackson.databind    Look up a coordinate
  jpmsdeps deps                                 Print every unit's dependencies
  jpmsdeps check ordering                       Check requires ordering
  jpmsdeps recommend --catalog                  Latest stable versions
  jpmsdeps config init                          Create jpmsdeps.cue`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := report.Format(flags.format).Validate(); err != nil {
				return err
			}
			app.configureLogger(flags.verbose)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.writeMetrics(flags.metricsFile)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is <root>/jpmsdeps.cue, then the user config directory)")
	pf.StringVar(&flags.root, "root", ".", "build root directory")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	pf.StringVar(&flags.format, "format", string(report.FormatText), "output format for reports (text, json, yaml)")

	rootCmd.AddCommand(
		newParseCommand(app, flags),
		newGACommand(app, flags),
		newGAVCommand(app, flags),
		newNameCommand(app, flags),
		newMappingsCommand(app, flags),
		newDepsCommand(app, flags),
		newCheckCommand(app, flags),
		newAnalyzeCommand(app, flags),
		newRecommendCommand(app, flags),
		newGenerateCommand(app, flags),
		newWatchCommand(app, flags),
		newConfigCommand(app, flags),
		newExplainCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, false))
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
