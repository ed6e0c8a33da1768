// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain a diagnostic and how to fix it",
		Long: `Explain a diagnostic and how to fix it.

Without an argument, all known issues are listed.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return issueSlugs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, known := range issue.Values() {
					fmt.Fprintf(app.stdout, "%s  %s\n", CmdStyle.Render(fmt.Sprintf("%-24s", known.Slug())), issueTitle(known))
				}
				return nil
			}
			known, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain issue").
					WithResource(args[0]).
					WithSuggestion("Known issues: " + strings.Join(issueSlugs(), ", ")).
					BuildError()
			}
			rendered, err := known.Render(glamourStyle())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.stdout, rendered)
			return err
		},
	}
}

func issueSlugs() []string {
	values := issue.Values()
	slugs := make([]string, 0, len(values))
	for _, known := range values {
		slugs = append(slugs, known.Slug())
	}
	return slugs
}

// issueTitle is the first markdown heading of an issue.
func issueTitle(known *issue.Issue) string {
	first, _, _ := strings.Cut(strings.TrimSpace(string(known.MarkdownMsg())), "\n")
	return strings.TrimSpace(strings.TrimLeft(first, "#"))
}
