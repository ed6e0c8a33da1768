// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/report"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

type (
	// lookupReport is the answer of ga, gav and name.
	lookupReport struct {
		Module     string `json:"module" yaml:"module"`
		Coordinate string `json:"coordinate" yaml:"coordinate"`
		Origin     string `json:"origin,omitempty" yaml:"origin,omitempty"`
		// value is the line printed in text format.
		value string
	}

	// descriptorReport prints a parsed descriptor.
	descriptorReport struct {
		d *javamod.Descriptor
	}
)

func newParseCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <module-info.java>",
		Short: "Print the directives of a module descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := javamod.ParseFile(args[0])
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("read module descriptor").
					WithResource(args[0]).
					WithIssue(issue.DescriptorNotFoundId).
					Wrap(err).
					BuildError()
			}
			app.Metrics.Parsed()
			if d.IsEmpty() {
				app.logger.Warn("no module declaration found", "descriptor", args[0])
			}
			return app.write(flags, descriptorReport{d: d})
		},
	}
}

func newGACommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "ga <module>",
		Short: "Print the group:artifact coordinate of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := resolve(ws.mapping, args[0])
			if err != nil {
				return err
			}
			ga := res.Coordinate.Primary().String()
			return app.write(flags, lookupReport{Module: res.Name, Coordinate: ga, Origin: res.Origin.String(), value: ga})
		},
	}
}

func newGAVCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "gav <module> [version]",
		Short: "Print group:artifact:version of a module",
		Long: `Print group:artifact:version of a module.

Without a version argument the version is taken from the version catalog.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			res, err := resolve(ws.mapping, args[0])
			if err != nil {
				return err
			}
			var gav string
			if len(args) == 2 {
				gav, err = ws.mapping.GAV(args[0], args[1])
				if err != nil {
					return err
				}
			} else {
				v, err := ws.mapping.ResolveWithVersion(args[0], ws.catalog)
				if err != nil {
					return err
				}
				if v.Version == "" {
					return issue.NewErrorContext().
						WithOperation("look up version").
						WithResource(args[0]).
						WithSuggestion(fmt.Sprintf("Add %s to the [versions] table of %s", strings.ReplaceAll(args[0], ".", "_"), ws.cfg.CatalogPath(ws.root))).
						WithSuggestion("Pass the version as second argument").
						WithIssue(issue.MissingVersionId).
						BuildError()
				}
				gav = v.String()
			}
			return app.write(flags, lookupReport{Module: res.Name, Coordinate: gav, Origin: res.Origin.String(), value: gav})
		},
	}
}

func newNameCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "name <group:artifact>",
		Short: "Print the module name registered for a coordinate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ga := modmap.Coordinate(args[0])
			if err := ga.Validate(); err != nil {
				return err
			}
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			name, ok := ws.mapping.ReverseResolve(ga)
			if !ok {
				return &ExitError{Code: types.ExitUnresolved, Err: issue.NewErrorContext().
					WithOperation("find module name").
					WithResource(ga.String()).
					WithSuggestion("Register the module in module_name_to_ga").
					WithIssue(issue.UnresolvedModuleId).
					BuildError()}
			}
			return app.write(flags, lookupReport{Module: name, Coordinate: ga.String(), value: name})
		},
	}
}

func newMappingsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "List every module name mapping and prefix rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return app.write(flags, report.MappingsReport(ws.mapping))
		},
	}
}

func resolve(mapping *modmap.Mapping, name string) (modmap.Result, error) {
	res := mapping.Resolve(name)
	if err := res.Err(); err != nil {
		return res, &ExitError{Code: types.ExitUnresolved, Err: issue.NewErrorContext().
			WithOperation("resolve module").
			WithResource(name).
			WithSuggestion(fmt.Sprintf("Add %q: \"group:artifact\" to module_name_to_ga", name)).
			WithSuggestion("Or register a prefix rule in module_name_prefix_to_group").
			WithIssue(issue.UnresolvedModuleId).
			Wrap(err).
			BuildError()}
	}
	return res, nil
}

// Text implements report.Texter.
func (r lookupReport) Text() string { return r.value + "\n" }

// Text implements report.Texter.
func (r descriptorReport) Text() string {
	d := r.d
	if d.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	if d.IsOpen() {
		sb.WriteString("open ")
	}
	sb.WriteString("module " + d.ModuleName() + "\n")
	for _, kind := range javamod.AllDirectives() {
		for _, name := range d.Get(kind) {
			sb.WriteString("    " + kind.Literal() + " " + name + ";\n")
		}
	}
	for _, name := range d.Exports() {
		sb.WriteString("    exports " + name + ";\n")
	}
	for _, name := range d.Opens() {
		sb.WriteString("    opens " + name + ";\n")
	}
	for _, name := range d.Uses() {
		sb.WriteString("    uses " + name + ";\n")
	}
	provides := d.Provides()
	for _, service := range slices.Sorted(maps.Keys(provides)) {
		sb.WriteString("    provides " + service + " with " + strings.Join(provides[service], ", ") + ";\n")
	}
	return sb.String()
}

// MarshalJSON delegates to the descriptor.
func (r descriptorReport) MarshalJSON() ([]byte, error) { return r.d.MarshalJSON() }

// MarshalYAML delegates to the descriptor.
func (r descriptorReport) MarshalYAML() (any, error) { return r.d.MarshalYAML() }
