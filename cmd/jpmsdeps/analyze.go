// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/report"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

func newAnalyzeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var failOnWarnings bool
	cmd := &cobra.Command{
		Use:   "analyze <archive>...",
		Short: "Analyze the archives of a module path",
		Long: `Analyze the archives of a module path.

Every argument is a jar file or classes directory, optionally preceded by
its coordinate: group:artifact[:version]=path. Without a coordinate, it is
derived from Maven repository and Gradle cache layouts.

The report lists the modules in use and flags components that are not
modules, mappings pointing at non-modules, and modules without a mapping.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]report.PathEntry, 0, len(args))
			for _, arg := range args {
				e, err := report.ParsePathEntry(arg)
				if err != nil {
					return err
				}
				entries = append(entries, e)
			}
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			analysis, err := report.AnalyzeModulePath(entries, ws.mapping, app.ReadModuleName)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("analyze module path").
					WithSuggestion("Check that every archive is a readable jar file").
					Wrap(err).
					BuildError()
			}
			if err := app.write(flags, analysis); err != nil {
				return err
			}
			if failOnWarnings && analysis.HasWarnings() {
				return &ExitError{Code: types.ExitCheckFailed}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", false, "exit with a failure when the analysis has warnings")
	return cmd
}
