// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/discovery"
	"github.com/jpmsdeps/jpmsdeps/internal/generate"
	"github.com/jpmsdeps/jpmsdeps/internal/wiring"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

// DefaultBuildFileName is the build script rewritten by `generate build-file`.
const DefaultBuildFileName = "build.gradle.kts"

func newGenerateCommand(app *App, flags *rootFlagValues) *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate files from module descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	genCmd.AddCommand(
		newGenerateModuleInfoCommand(app, flags),
		newGenerateServicesCommand(app, flags),
		newGenerateCatalogCommand(app, flags),
		newGenerateBuildFileCommand(app, flags),
		newGenerateRuntimeStubsCommand(app, flags),
	)
	return genCmd
}

func newGenerateModuleInfoCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var output string
	deps := make(map[javamod.Directive]*[]string)
	cmd := &cobra.Command{
		Use:   "module-info <module-name>",
		Short: "Generate a module-info.java",
		Long: `Generate a module-info.java.

Dependencies are given per directive as module names or group:artifact
coordinates. Coordinates without a known module name are written as
commented-out directives.`,
		Example: `  jpmsdeps generate module-info org.example.app \
    --requires-transitive org.example.api \
    --requires com.fasterxml.jackson.core:jackson-databind`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadMapping(cmd.Context(), flags)
			if err != nil {
				return err
			}
			in := make(generate.Dependencies, len(deps))
			for kind, values := range deps {
				in[kind] = *values
			}
			res := generate.ModuleInfo(args[0], in, ws.mapping)
			for _, skipped := range res.Skipped {
				app.logger.Warn("no module name known for coordinate", "coordinate", skipped)
			}
			return writeOutput(app.stdout, output, []byte(res.Content))
		},
	}
	for _, kind := range javamod.AllDirectives() {
		values := new([]string)
		deps[kind] = values
		cmd.Flags().StringSliceVar(values, directiveFlag(kind), nil, fmt.Sprintf("modules for '%s' (repeatable)", kind.Literal()))
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newGenerateServicesCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "Generate META-INF/services files from provides directives",
		Long: `Generate META-INF/services files from provides directives.

The files of each source set are written below
<unit>/build/generated/jpmsdeps/<source set>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return forEachDescriptor(cmd.Context(), ws, func(u discovery.Unit, set discovery.SourceSet, d *javamod.Descriptor) error {
				written, err := generate.MetaInfServices(d, generatedDir(u, set))
				if err != nil {
					return err
				}
				for _, path := range written {
					fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" "+types.FilesystemPath(path).RelTo(types.FilesystemPath(ws.root)))
				}
				return nil
			})
		},
	}
}

func newGenerateRuntimeStubsCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "runtime-stubs",
		Short: "Write empty modules for requires /*runtime*/ directives",
		Long: `Write empty modules for requires /*runtime*/ directives.

A runtime-only module is not on the compile classpath, but javac still
resolves the requires directive. Each such module gets a synthetic
module-info.class below <unit>/build/tmp/jpmsdeps/<source set>/<module>;
put that folder on the module path when compiling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return forEachDescriptor(cmd.Context(), ws, func(u discovery.Unit, set discovery.SourceSet, d *javamod.Descriptor) error {
				written, err := generate.RuntimeStubs(wiring.RequiresRuntimeSupport(d, runtimeSupportDir(u, set)))
				if err != nil {
					return err
				}
				for _, path := range written {
					fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" "+types.FilesystemPath(path).RelTo(types.FilesystemPath(ws.root)))
				}
				return nil
			})
		},
	}
}

func newGenerateCatalogCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Generate the [libraries] table of the version catalog",
		Long: `Generate the [libraries] table of the version catalog.

Every external module required by the build gets one library entry named
after the module. Other tables of an existing catalog are kept; comments
in them are not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			r, err := wireAll(cmd.Context(), ws, false)
			if err != nil {
				return err
			}
			var entries []generate.CatalogEntry
			for _, s := range r.SourceSets {
				for _, d := range s.Declarations {
					if d.Coordinate == "" {
						continue
					}
					entries = append(entries, generate.CatalogEntry{Module: d.Module, Coordinate: d.Coordinate, Version: d.Version})
				}
			}
			if dryRun {
				_, err := app.stdout.Write(generate.Catalog(entries, ws.cfg.Group))
				return err
			}
			path := ws.cfg.CatalogPath(ws.root)
			if err := generate.WriteCatalog(path, entries, ws.cfg.Group); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" "+types.FilesystemPath(path).RelTo(types.FilesystemPath(ws.root)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the [libraries] table instead of writing the catalog")
	return cmd
}

func newGenerateBuildFileCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		dryRun      bool
		withCatalog bool
		fileName    string
	)
	cmd := &cobra.Command{
		Use:   "build-file",
		Short: "Rewrite the dependencies blocks of every build script",
		Long: `Rewrite the dependencies blocks of every build script.

Everything from the first line mentioning "dependencies" to the end of the
build script is replaced by the declarations derived from the unit's
module descriptors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			r, err := wireAll(cmd.Context(), ws, false)
			if err != nil {
				return err
			}
			blocks := make(map[string][]generate.SourceSetDependencies)
			for _, s := range r.SourceSets {
				blocks[s.Unit] = append(blocks[s.Unit], generate.SourceSetDependencies{Name: s.SourceSet, Declarations: s.Declarations})
			}
			for _, u := range ws.units {
				path := filepath.Join(u.Dir, fileName)
				existing, err := os.ReadFile(path)
				if err != nil && !os.IsNotExist(err) {
					return err
				}
				content := generate.BuildFileDependencies(string(existing), blocks[u.Path], withCatalog, ws.cfg.Group)
				rel := types.FilesystemPath(path).RelTo(types.FilesystemPath(ws.root))
				if dryRun {
					fmt.Fprintln(app.stdout, TitleStyle.Render(rel))
					fmt.Fprint(app.stdout, content)
					continue
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", rel, err)
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" "+rel)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the build scripts instead of writing them")
	cmd.Flags().BoolVar(&withCatalog, "catalog", false, "use type-safe project and catalog accessors")
	cmd.Flags().StringVar(&fileName, "build-file", DefaultBuildFileName, "build script name inside each unit directory")
	return cmd
}

// directiveFlag is the flag name of a directive kind: requires-static-transitive.
func directiveFlag(kind javamod.Directive) string {
	return strings.ToLower(strings.ReplaceAll(kind.String(), "_", "-"))
}

func generatedDir(u discovery.Unit, set discovery.SourceSet) string {
	return filepath.Join(u.Dir, "build", "generated", "jpmsdeps", set.Name)
}

// writeOutput writes content to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := w.Write(content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, content, 0o644)
}
