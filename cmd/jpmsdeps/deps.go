// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/discovery"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/wiring"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

type (
	// sourceSetDeps are the declarations of one source set.
	sourceSetDeps struct {
		Unit         string               `json:"unit" yaml:"unit"`
		SourceSet    string               `json:"source_set" yaml:"source_set"`
		Module       string               `json:"module" yaml:"module"`
		Declarations []wiring.Declaration `json:"declarations" yaml:"declarations"`
		// RuntimeSupport lists the synthetic module folders compilation
		// needs for `requires /*runtime*/` modules.
		RuntimeSupport []string `json:"runtime_support,omitempty" yaml:"runtime_support,omitempty"`
	}

	depsReport struct {
		SourceSets  []sourceSetDeps    `json:"source_sets" yaml:"source_sets"`
		Diagnostics []issue.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	}
)

func newDepsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the dependency declarations of every build unit",
		Long: `Print the dependency declarations of every build unit.

Each requires directive of a discovered module-info.java becomes one
declaration: modules of the build become project dependencies, all others
are mapped to group:artifact coordinates with the catalog version.
Runtime module stubs are listed here and written by
'jpmsdeps generate runtime-stubs'.

With --strict, modules without a mapping fail the command instead of being
reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			r, err := wireAll(cmd.Context(), ws, strict)
			if werr := app.write(flags, r); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on modules without a mapping")
	return cmd
}

// wireAll wires every source set of every unit. In strict mode unresolved
// modules of all descriptors are collected before failing.
func wireAll(ctx context.Context, ws *workspace, strict bool) (*depsReport, error) {
	r := &depsReport{}
	var unresolved []error
	for _, u := range ws.units {
		for _, set := range u.SourceSets {
			if err := ctx.Err(); err != nil {
				return r, err
			}
			d, err := ws.cache.Get(types.FilesystemPath(set.DescriptorPath))
			if err != nil {
				return r, err
			}
			if d.IsEmpty() {
				continue
			}
			var sink wiring.Collector
			diags, err := ws.resolver.Wire(u.Path, set.Name, d, &sink, strict)
			r.Diagnostics = append(r.Diagnostics, diags...)
			switch {
			case err == nil:
			case wiring.IsUnresolved(err):
				unresolved = append(unresolved, err)
			default:
				return r, err
			}
			r.SourceSets = append(r.SourceSets, sourceSetDeps{
				Unit:           u.Path,
				SourceSet:      set.Name,
				Module:         d.ModuleName(),
				Declarations:   sink.Declarations,
				RuntimeSupport: wiring.RequiresRuntimeSupport(d, runtimeSupportDir(u, set)),
			})
		}
	}
	if len(unresolved) > 0 {
		return r, &ExitError{Code: types.ExitUnresolved, Err: issue.NewErrorContext().
			WithOperation("wire dependencies").
			WithSuggestion("Add the missing modules to module_name_to_ga").
			WithSuggestion("Or register a prefix rule in module_name_prefix_to_group").
			WithIssue(issue.UnresolvedModuleId).
			Wrap(errors.Join(unresolved...)).
			BuildError()}
	}
	return r, nil
}

func runtimeSupportDir(u discovery.Unit, set discovery.SourceSet) string {
	return filepath.Join(u.Dir, "build", "tmp", "jpmsdeps", set.Name)
}

// Text implements report.Texter.
func (r *depsReport) Text() string {
	var sb strings.Builder
	for i, s := range r.SourceSets {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Unit + " (" + s.SourceSet + ") " + s.Module + "\n")
		if len(s.Declarations) == 0 {
			sb.WriteString("    (no dependencies)\n")
		}
		for _, d := range s.Declarations {
			sb.WriteString("    " + d.String() + "\n")
		}
		for _, folder := range s.RuntimeSupport {
			sb.WriteString("    runtime module stub: " + folder + "\n")
		}
	}
	return sb.String()
}
