// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/jpmsdeps/jpmsdeps/internal/config"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// DescriptorFileName is the module descriptor file name.
const DescriptorFileName = "module-info.java"

type (
	// SourceSet is one source set of a unit that has a descriptor.
	SourceSet struct {
		Name           string `json:"name" yaml:"name"`
		DescriptorPath string `json:"descriptor" yaml:"descriptor"`
	}

	// Unit is a discovered build unit.
	Unit struct {
		// Path is the unit path, e.g. ":billing".
		Path string `json:"path" yaml:"path"`
		// Dir is the absolute unit directory.
		Dir        string      `json:"dir" yaml:"dir"`
		Artifact   string      `json:"artifact" yaml:"artifact"`
		Group      string      `json:"group,omitempty" yaml:"group,omitempty"`
		SourceSets []SourceSet `json:"source_sets" yaml:"source_sets"`
	}

	// Option configures a Discovery.
	Option func(*Discovery)

	// Discovery locates build units below a build root.
	Discovery struct {
		root        string
		directories []config.DirectoryEntry
		modules     []config.ModuleEntry
		group       string
		logger      *log.Logger
	}
)

// New creates a Discovery rooted at root.
func New(root string, opts ...Option) *Discovery {
	d := &Discovery{root: root, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromConfig creates a Discovery for the directories, modules and default
// group of a project configuration.
func FromConfig(root string, cfg *config.Config, logger *log.Logger) *Discovery {
	return New(root,
		WithDirectories(cfg.Directories...),
		WithModules(cfg.Modules...),
		WithGroup(cfg.Group),
		WithLogger(logger))
}

// WithDirectories adds discovery roots.
func WithDirectories(dirs ...config.DirectoryEntry) Option {
	return func(d *Discovery) { d.directories = append(d.directories, dirs...) }
}

// WithModules adds explicitly listed units.
func WithModules(modules ...config.ModuleEntry) Option {
	return func(d *Discovery) { d.modules = append(d.modules, modules...) }
}

// WithGroup sets the group of units that do not configure one.
func WithGroup(group string) Option {
	return func(d *Discovery) { d.group = group }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(d *Discovery) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Discover returns every unit sorted by path. Explicit modules come first
// and take precedence over directory listings; a unit path found twice is
// reported as a diagnostic and the first definition is kept.
func (d *Discovery) Discover(ctx context.Context) ([]Unit, []issue.Diagnostic, error) {
	root, err := filepath.Abs(d.root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve build root: %w", err)
	}

	var (
		units []Unit
		diags []issue.Diagnostic
	)
	seen := make(map[string]string)
	add := func(u Unit) {
		if first, dup := seen[u.Path]; dup {
			diags = append(diags, issue.NewDiagnostic(issue.SeverityWarning, issue.DuplicateLocalModuleId,
				fmt.Sprintf("build unit %s is defined by both %s and %s", u.Path, first, u.Dir)).WithPath(u.Dir))
			return
		}
		seen[u.Path] = u.Dir
		units = append(units, u)
	}

	explicit := make(map[string]bool)
	for _, m := range d.modules {
		dir := filepath.Join(root, filepath.FromSlash(m.Directory))
		explicit[filepath.Clean(dir)] = true
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			diags = append(diags, issue.NewDiagnostic(issue.SeverityWarning, issue.DescriptorNotFoundId,
				fmt.Sprintf("module directory %s does not exist", m.Directory)).WithPath(m.Directory).WithCause(err))
			continue
		}
		sets, err := sourceSets(dir)
		if err != nil {
			return nil, diags, err
		}
		add(d.unit(dir, m.Artifact, firstNonEmpty(m.Group, d.group), sets))
	}

	for _, entry := range d.directories {
		if err := ctx.Err(); err != nil {
			return nil, diags, err
		}
		parent := filepath.Join(root, filepath.FromSlash(entry.Path))
		children, err := os.ReadDir(parent)
		if err != nil {
			diags = append(diags, issue.NewDiagnostic(issue.SeverityWarning, issue.DescriptorNotFoundId,
				fmt.Sprintf("directory %s cannot be listed", entry.Path)).WithPath(entry.Path).WithCause(err))
			continue
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			dir := filepath.Join(parent, child.Name())
			if explicit[filepath.Clean(dir)] {
				continue
			}
			rel := filepath.ToSlash(filepath.Join(entry.Path, child.Name()))
			if excluded(entry.Exclusions, child.Name(), rel) {
				d.logger.Debug("excluded from discovery", "dir", rel)
				continue
			}
			sets, err := sourceSets(dir)
			if err != nil {
				return nil, diags, err
			}
			if len(sets) == 0 {
				continue
			}
			add(d.unit(dir, "", firstNonEmpty(entry.Group, d.group), sets))
		}
	}

	slices.SortFunc(units, func(a, b Unit) int { return strings.Compare(a.Path, b.Path) })
	d.logger.Debug("discovered build units", "count", len(units))
	return units, diags, nil
}

func (d *Discovery) unit(dir, artifact, group string, sets []SourceSet) Unit {
	if artifact == "" {
		artifact = filepath.Base(dir)
	}
	return Unit{Path: ":" + artifact, Dir: dir, Artifact: artifact, Group: group, SourceSets: sets}
}

// sourceSets lists src/*/java/module-info.java below a unit directory,
// sorted by source set name with "main" first.
func sourceSets(dir string) ([]SourceSet, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "src", "*", "java", DescriptorFileName))
	if err != nil {
		return nil, fmt.Errorf("list descriptors of %s: %w", dir, err)
	}
	sets := make([]SourceSet, 0, len(matches))
	for _, path := range matches {
		name := filepath.Base(filepath.Dir(filepath.Dir(path)))
		sets = append(sets, SourceSet{Name: name, DescriptorPath: path})
	}
	slices.SortFunc(sets, func(a, b SourceSet) int {
		switch {
		case a.Name == b.Name:
			return 0
		case a.Name == javamod.MainSourceSet:
			return -1
		case b.Name == javamod.MainSourceSet:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sets, nil
}

// excluded matches exclusion globs against the directory name and against
// its slash-separated path relative to the build root.
func excluded(patterns []string, name, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Main returns the main source set, if the unit has one.
func (u Unit) Main() (SourceSet, bool) {
	for _, s := range u.SourceSets {
		if s.Name == javamod.MainSourceSet {
			return s, true
		}
	}
	return SourceSet{}, false
}
