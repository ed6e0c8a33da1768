// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/dag"
	"github.com/jpmsdeps/jpmsdeps/internal/discovery"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/localmod"
	"github.com/jpmsdeps/jpmsdeps/internal/report"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

type (
	// orderingReport aggregates the ordering violations of all descriptors.
	orderingReport struct {
		Descriptors []*report.OrderingError `json:"descriptors" yaml:"descriptors"`
	}

	cycleReport struct {
		Cycles [][]string `json:"cycles" yaml:"cycles"`
	}
)

func newCheckCommand(app *App, flags *rootFlagValues) *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check module descriptor conventions",
		Long: `Check module descriptor conventions.

Without a subcommand, the ordering, naming and cycle checks run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return errors.Join(
				runOrderingCheck(ctx, app, flags, ws),
				runNamingCheck(ctx, app, flags, ws),
				runCycleCheck(ctx, app, flags, ws),
			)
		},
	}

	checkCmd.AddCommand(&cobra.Command{
		Use:   "ordering",
		Short: "Check that requires directives are declared alphabetically",
		Long: `Check that requires directives are declared alphabetically.

Within each directive kind, modules of the build (those sharing the build's
module name prefix) come first; all modules are sorted by name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return runOrderingCheck(cmd.Context(), app, flags, ws)
		},
	})

	checkCmd.AddCommand(&cobra.Command{
		Use:   "naming",
		Short: "Check that module names follow the build unit names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return runNamingCheck(cmd.Context(), app, flags, ws)
		},
	})

	checkCmd.AddCommand(&cobra.Command{
		Use:   "cycles",
		Short: "Check that the modules of the build do not require each other in a cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return runCycleCheck(cmd.Context(), app, flags, ws)
		},
	})

	return checkCmd
}

func runOrderingCheck(ctx context.Context, app *App, flags *rootFlagValues, ws *workspace) error {
	r := &orderingReport{}
	err := forEachDescriptor(ctx, ws, func(u discovery.Unit, set discovery.SourceSet, d *javamod.Descriptor) error {
		prefix, _, _ := d.ModuleNamePrefix(localmod.UnitName(u.Path), set.Name, false)
		if prefix != "" {
			prefix += "."
		}
		var oe *report.OrderingError
		if errors.As(report.OrderingCheck(d, prefix), &oe) {
			oe.Path = types.FilesystemPath(d.Path()).RelTo(types.FilesystemPath(ws.root))
			r.Descriptors = append(r.Descriptors, oe)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(r.Descriptors) == 0 {
		app.logger.Info("requires directives are ordered")
		return nil
	}
	if err := app.write(flags, r); err != nil {
		return err
	}
	return &ExitError{Code: types.ExitCheckFailed, Err: issue.NewErrorContext().
		WithOperation("check ordering").
		WithResource(fmt.Sprintf("%d descriptor(s)", len(r.Descriptors))).
		WithSuggestion("Reorder the requires directives as printed above").
		WithIssue(issue.OrderingViolationId).
		Wrap(report.ErrOrdering).
		BuildError()}
}

func runNamingCheck(ctx context.Context, app *App, flags *rootFlagValues, ws *workspace) error {
	var targets []report.NamingTarget
	err := forEachDescriptor(ctx, ws, func(u discovery.Unit, set discovery.SourceSet, d *javamod.Descriptor) error {
		targets = append(targets, report.NamingTarget{Unit: localmod.UnitName(u.Path), SourceSet: set.Name, Descriptor: d})
		return nil
	})
	if err != nil {
		return err
	}
	res := report.CheckNaming(targets)
	if res.Err() == nil {
		app.logger.Info("module names follow the naming convention", "modules", len(res.Prefixes))
		return nil
	}
	if err := app.write(flags, res); err != nil {
		return err
	}
	return &ExitError{Code: types.ExitCheckFailed, Err: issue.NewErrorContext().
		WithOperation("check naming").
		WithSuggestion("Name each module <prefix>.<unit>[.<source set>]").
		WithIssue(issue.NamingConventionId).
		Wrap(res.Err()).
		BuildError()}
}

func runCycleCheck(ctx context.Context, app *App, flags *rootFlagValues, ws *workspace) error {
	var descriptors []*javamod.Descriptor
	err := forEachDescriptor(ctx, ws, func(_ discovery.Unit, _ discovery.SourceSet, d *javamod.Descriptor) error {
		descriptors = append(descriptors, d)
		return nil
	})
	if err != nil {
		return err
	}

	g := dag.New()
	local := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		g.AddModule(d.ModuleName())
		local[d.ModuleName()] = true
	}
	for _, d := range descriptors {
		for _, required := range d.AllRequired() {
			if local[required] {
				g.AddRequires(d.ModuleName(), required)
			}
		}
	}

	r := &cycleReport{Cycles: g.Cycles()}
	if len(r.Cycles) == 0 {
		app.logger.Info("module graph is acyclic", "modules", g.Len())
		return nil
	}
	if err := app.write(flags, r); err != nil {
		return err
	}
	return &ExitError{Code: types.ExitCheckFailed, Err: issue.NewErrorContext().
		WithOperation("check cycles").
		WithResource(fmt.Sprintf("%d cycle(s)", len(r.Cycles))).
		WithSuggestion("Break each cycle printed above").
		WithIssue(issue.ModuleCycleId).
		Wrap(&dag.CycleError{Cycle: r.Cycles[0]}).
		BuildError()}
}

// forEachDescriptor calls fn for every non-empty descriptor of the workspace.
func forEachDescriptor(ctx context.Context, ws *workspace, fn func(discovery.Unit, discovery.SourceSet, *javamod.Descriptor) error) error {
	for _, u := range ws.units {
		for _, set := range u.SourceSets {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := ws.cache.Get(types.FilesystemPath(set.DescriptorPath))
			if err != nil {
				return err
			}
			if d.IsEmpty() {
				continue
			}
			if err := fn(u, set, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Text implements report.Texter.
func (r *orderingReport) Text() string {
	var sb strings.Builder
	for _, e := range r.Descriptors {
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Text implements report.Texter.
func (r *cycleReport) Text() string {
	var sb strings.Builder
	for _, c := range r.Cycles {
		sb.WriteString(strings.Join(c, " -> ") + "\n")
	}
	return sb.String()
}
