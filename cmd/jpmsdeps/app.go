// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/jpmsdeps/jpmsdeps/internal/archive"
	"github.com/jpmsdeps/jpmsdeps/internal/config"
	"github.com/jpmsdeps/jpmsdeps/internal/descache"
	"github.com/jpmsdeps/jpmsdeps/internal/discovery"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/localmod"
	"github.com/jpmsdeps/jpmsdeps/internal/mavenrepo"
	"github.com/jpmsdeps/jpmsdeps/internal/metrics"
	"github.com/jpmsdeps/jpmsdeps/internal/report"
	"github.com/jpmsdeps/jpmsdeps/internal/wiring"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and load
	// the workspace they operate on through it.
	App struct {
		Config         ConfigProvider
		ReadModuleName report.ModuleNameReader
		Versions       VersionSourceFactory
		Metrics        *metrics.Recorder
		stdout         io.Writer
		stderr         io.Writer
		logger         *log.Logger
		verbose        bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config         ConfigProvider
		ReadModuleName report.ModuleNameReader
		Versions       VersionSourceFactory
		Metrics        *metrics.Recorder
		Stdout         io.Writer
		Stderr         io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// VersionSourceFactory creates the latest-version lookup for a
	// repository base URL.
	VersionSourceFactory func(repository string, logger *log.Logger) report.VersionSource

	// workspace is everything one command invocation knows about the build.
	workspace struct {
		root     string
		cfg      *config.Config
		mapping  *modmap.Mapping
		catalog  modmap.Catalog
		cache    *descache.Cache
		registry *localmod.Registry
		units    []discovery.Unit
		diags    []issue.Diagnostic
		resolver *wiring.Resolver
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.ReadModuleName == nil {
		deps.ReadModuleName = archive.ReadModuleName
	}
	if deps.Versions == nil {
		deps.Versions = func(repository string, logger *log.Logger) report.VersionSource {
			return mavenrepo.NewClient(repository, mavenrepo.WithLogger(logger))
		}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	app := &App{
		Config:         deps.Config,
		ReadModuleName: deps.ReadModuleName,
		Versions:       deps.Versions,
		Metrics:        deps.Metrics,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
	}
	app.configureLogger(false)
	return app, nil
}

func (a *App) configureLogger(verbose bool) {
	a.verbose = verbose
	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
}

func (a *App) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := a.Metrics.WriteTextfile(path); err != nil {
		return issue.NewErrorContext().
			WithOperation("write metrics").
			WithResource(path).
			WithSuggestion("Check that the directory exists and is writable").
			Wrap(err).
			BuildError()
	}
	a.logger.Debug("metrics written", "path", path)
	return nil
}

// loadMapping loads the configuration, the baseline tables and the version
// catalog of the build root.
func (a *App) loadMapping(ctx context.Context, flags *rootFlagValues) (*workspace, error) {
	root, err := filepath.Abs(flags.root)
	if err != nil {
		return nil, fmt.Errorf("resolve build root: %w", err)
	}
	cfg, err := a.Config.Load(ctx, loadOptions(flags, root))
	if err != nil {
		return nil, &ExitError{Code: types.ExitConfigError, Err: err}
	}
	if cfg.UI.Verbose && !a.verbose {
		a.configureLogger(true)
	}
	applyColorMode(cfg.UI.Color)

	baseline, err := modmap.DefaultBaseline()
	if err != nil {
		return nil, &ExitError{Code: types.ExitConfigError, Err: issue.NewErrorContext().
			WithOperation("load mapping baseline").
			WithIssue(issue.BaselineConflictId).
			Wrap(err).
			BuildError()}
	}
	mapping, err := cfg.Mapping(baseline)
	if err != nil {
		return nil, &ExitError{Code: types.ExitConfigError, Err: issue.NewErrorContext().
			WithOperation("build module name mapping").
			WithSuggestion("Use the group:artifact form for module_name_to_ga values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()}
	}

	ws := &workspace{root: root, cfg: cfg, mapping: mapping}
	catalog, err := cfg.LoadCatalog(root)
	if err != nil {
		return nil, &ExitError{Code: types.ExitConfigError, Err: issue.NewErrorContext().
			WithOperation("load version catalog").
			WithResource(cfg.CatalogPath(root)).
			WithSuggestion("Check the TOML syntax of the catalog").
			WithIssue(issue.CatalogLoadFailedId).
			Wrap(err).
			BuildError()}
	}
	if catalog != nil {
		ws.catalog = catalog
		a.logger.Debug("version catalog loaded", "path", catalog.Path(), "versions", catalog.Len())
	}
	return ws, nil
}

// loadWorkspace is loadMapping plus discovery and registration of every
// local module.
func (a *App) loadWorkspace(ctx context.Context, flags *rootFlagValues) (*workspace, error) {
	ws, err := a.loadMapping(ctx, flags)
	if err != nil {
		return nil, err
	}
	cache, err := descache.New(descache.DefaultSize, a.Metrics)
	if err != nil {
		return nil, err
	}
	ws.cache = cache
	ws.registry = localmod.NewRegistry(cache)

	units, diags, err := discovery.FromConfig(ws.root, ws.cfg, a.logger).Discover(ctx)
	if err != nil {
		return nil, err
	}
	regDiags, err := discovery.Register(ws.registry, units)
	if err != nil {
		return nil, err
	}
	ws.units = units
	ws.diags = append(diags, regDiags...)
	a.logDiagnostics(ws.diags)

	ws.resolver = &wiring.Resolver{
		Mapping:                ws.mapping,
		Registry:               ws.registry,
		Catalog:                ws.catalog,
		Logger:                 a.logger,
		Metrics:                a.Metrics,
		WarnForMissingVersions: ws.cfg.ShouldWarnForMissingVersions(ws.root),
		Root:                   ws.root,
	}
	a.logger.Debug("workspace loaded", "units", len(units), "local_modules", ws.registry.Len())
	return ws, nil
}

func (a *App) logDiagnostics(diags []issue.Diagnostic) {
	for _, d := range diags {
		if d.Severity == issue.SeverityError {
			a.logger.Error(d.Message, "path", d.Path)
			continue
		}
		a.logger.Warn(d.Message, "path", d.Path)
	}
}

// write renders a report in the format selected by --format.
func (a *App) write(flags *rootFlagValues, r report.Texter) error {
	return report.Write(a.stdout, report.Format(flags.format), r)
}

func loadOptions(flags *rootFlagValues, root string) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(flags.configPath),
		Root:           types.FilesystemPath(root),
	}
}

func applyColorMode(mode config.ColorMode) {
	switch mode {
	case config.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// glamourStyle picks the markdown style matching the color profile.
func glamourStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	return "dark"
}
