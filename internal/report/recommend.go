// SPDX-License-Identifier: MPL-2.0

package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/mavenrepo"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

type (
	// VersionSource answers the latest stable version of a component.
	// *mavenrepo.Client is the online implementation.
	VersionSource interface {
		LatestStable(ctx context.Context, group, artifact string) (string, error)
	}

	// CatalogSource answers from the version catalog, for offline runs.
	CatalogSource struct {
		Mapping *modmap.Mapping
		Catalog modmap.Catalog
	}

	// ComponentVersion is a component with a candidate version.
	ComponentVersion struct {
		Coordinate modmap.Coordinate
		Version    string
	}

	// ModuleVersion is one recommended module version.
	ModuleVersion struct {
		Module     string            `json:"module" yaml:"module"`
		Coordinate modmap.Coordinate `json:"coordinate" yaml:"coordinate"`
		Version    string            `json:"version" yaml:"version"`
	}

	// RecommendOptions selects the snippets rendered by Text.
	RecommendOptions struct {
		Platform bool
		Catalog  bool
		// PropertiesFile names the file the properties snippet is meant
		// for. Empty omits the snippet.
		PropertiesFile string
	}

	// Recommendation lists the latest stable versions per module name.
	Recommendation struct {
		Modules []ModuleVersion `json:"modules" yaml:"modules"`
		opts    RecommendOptions
	}
)

// ErrNoCatalogVersion is returned by CatalogSource for unlisted modules.
var ErrNoCatalogVersion = errors.New("no version in catalog")

// LatestStable implements VersionSource.
func (s CatalogSource) LatestStable(_ context.Context, group, artifact string) (string, error) {
	ga := modmap.NewCoordinate(group, artifact)
	name, ok := s.Mapping.ReverseResolve(ga)
	if !ok || s.Catalog == nil {
		return "", fmt.Errorf("%s: %w", ga, ErrNoCatalogVersion)
	}
	v, ok := s.Catalog.FindVersion(name)
	if !ok {
		return "", fmt.Errorf("%s: %w", ga, ErrNoCatalogVersion)
	}
	return v, nil
}

// LatestVersions looks up every distinct primary coordinate. Failed lookups
// become warnings and the component is left out.
func LatestVersions(ctx context.Context, coordinates []modmap.Coordinate, src VersionSource, logger *log.Logger) ([]ComponentVersion, []issue.Diagnostic) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var (
		out   []ComponentVersion
		diags []issue.Diagnostic
		seen  = map[modmap.Coordinate]struct{}{}
	)
	for _, c := range coordinates {
		primary := c.Primary()
		if _, dup := seen[primary]; dup {
			continue
		}
		seen[primary] = struct{}{}
		if err := ctx.Err(); err != nil {
			diags = append(diags, issue.NewDiagnostic(issue.SeverityError, issue.RepositoryUnavailableId, err.Error()).WithCause(err))
			break
		}
		v, err := src.LatestStable(ctx, primary.Group(), primary.Artifact())
		if err != nil {
			logger.Warn("no version found", "component", primary, "err", err)
			diags = append(diags, issue.NewDiagnostic(issue.SeverityWarning, issue.RepositoryUnavailableId,
				fmt.Sprintf("no stable version found for %s: %v", primary, err)).WithCause(err))
			continue
		}
		out = append(out, ComponentVersion{Coordinate: primary, Version: v})
	}
	return out, diags
}

// RecommendVersions maps components back to module names. Components
// without a module name and unstable versions are dropped; when a module
// appears twice the higher version wins.
func RecommendVersions(components []ComponentVersion, mapping *modmap.Mapping, opts RecommendOptions) *Recommendation {
	byModule := map[string]ModuleVersion{}
	for _, c := range components {
		if !mavenrepo.IsStable(c.Version) {
			continue
		}
		name, ok := mapping.ReverseResolve(c.Coordinate)
		if !ok {
			continue
		}
		if prev, ok := byModule[name]; ok && mavenrepo.Compare(prev.Version, c.Version) >= 0 {
			continue
		}
		byModule[name] = ModuleVersion{Module: name, Coordinate: c.Coordinate.Primary(), Version: c.Version}
	}
	r := &Recommendation{Modules: make([]ModuleVersion, 0, len(byModule)), opts: opts}
	for _, name := range slices.Sorted(maps.Keys(byModule)) {
		r.Modules = append(r.Modules, byModule[name])
	}
	return r
}

// Platform returns the `version(...)` lines for a platform build file.
func (r *Recommendation) Platform() []string {
	return r.lines(func(m ModuleVersion) string {
		return fmt.Sprintf("    version(%q, %q)", m.Module, m.Version)
	})
}

// Catalog returns `[versions]` entries keyed by the module name with '.'
// replaced by '_'.
func (r *Recommendation) Catalog() []string {
	return r.lines(func(m ModuleVersion) string {
		return strings.ReplaceAll(m.Module, ".", "_") + " = " + fmt.Sprintf("%q", m.Version)
	})
}

// Properties returns `name=version` lines.
func (r *Recommendation) Properties() []string {
	return r.lines(func(m ModuleVersion) string { return m.Module + "=" + m.Version })
}

// Text renders the snippets enabled in the options.
func (r *Recommendation) Text() string {
	var sb strings.Builder
	if r.opts.Platform {
		sb.WriteString("\n")
		heading(&sb, "Latest Stable Versions of Java Modules - use in your platform project's build.gradle(.kts)")
		sb.WriteString("moduleInfo {\n")
		for _, l := range r.Platform() {
			sb.WriteString(l + "\n")
		}
		sb.WriteString("}\n")
	}
	if r.opts.Catalog {
		sb.WriteString("\n")
		heading(&sb, "Latest Stable Versions of Java Modules - use in [versions] section of 'gradle/libs.versions.toml'")
		for _, l := range r.Catalog() {
			sb.WriteString(l + "\n")
		}
	}
	if r.opts.PropertiesFile != "" {
		sb.WriteString("\n")
		heading(&sb, "Latest Stable Versions of Java Modules - use in: "+r.opts.PropertiesFile)
		for _, l := range r.Properties() {
			sb.WriteString(l + "\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Recommendation) lines(render func(ModuleVersion) string) []string {
	out := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		out = append(out, render(m))
	}
	slices.Sort(out)
	return out
}
