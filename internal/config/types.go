// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

const (
	// ColorAuto colors output when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"

	// DefaultCatalogPath is the version catalog location relative to the build root.
	DefaultCatalogPath = "gradle/libs.versions.toml"
	// DefaultRepository is the Maven repository used for recommendations.
	DefaultRepository = "https://repo1.maven.org/maven2"
)

var (
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorMode selects when output is colored.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	// It wraps ErrInvalidColorMode for errors.Is() compatibility.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// InvalidConfigError collects field-level validation errors.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// VersionCatalogConfig locates the version catalog.
	VersionCatalogConfig struct {
		// Path is relative to the build root unless absolute.
		Path string `json:"path" yaml:"path" mapstructure:"path"`
		// Name is the catalog name ("libs").
		Name string `json:"name" yaml:"name" mapstructure:"name"`
	}

	// DirectoryEntry is a multi-unit discovery root.
	DirectoryEntry struct {
		Path       string   `json:"path" yaml:"path" mapstructure:"path"`
		Group      string   `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
		Exclusions []string `json:"exclusions,omitempty" yaml:"exclusions,omitempty" mapstructure:"exclusions"`
	}

	// ModuleEntry is an explicitly listed build unit.
	ModuleEntry struct {
		Directory string `json:"directory" yaml:"directory" mapstructure:"directory"`
		Artifact  string `json:"artifact,omitempty" yaml:"artifact,omitempty" mapstructure:"artifact"`
		Group     string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool      `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" yaml:"color" mapstructure:"color"`
	}

	// Config holds the project configuration.
	Config struct {
		// ModuleNameToGA registers explicit overrides (putOverride).
		ModuleNameToGA map[string]string `json:"module_name_to_ga,omitempty" yaml:"module_name_to_ga,omitempty" mapstructure:"module_name_to_ga"`
		// ModuleNamePrefixToGroup registers prefix rules in order (putPrefixRule).
		ModuleNamePrefixToGroup []modmap.PrefixRule  `json:"module_name_prefix_to_group,omitempty" yaml:"module_name_prefix_to_group,omitempty" mapstructure:"module_name_prefix_to_group"`
		VersionCatalog          VersionCatalogConfig `json:"version_catalog" yaml:"version_catalog" mapstructure:"version_catalog"`
		// WarnForMissingVersions is nil when not configured; see ShouldWarnForMissingVersions.
		WarnForMissingVersions *bool            `json:"warn_for_missing_versions,omitempty" yaml:"warn_for_missing_versions,omitempty" mapstructure:"warn_for_missing_versions"`
		Directories            []DirectoryEntry `json:"directories,omitempty" yaml:"directories,omitempty" mapstructure:"directories"`
		Modules                []ModuleEntry    `json:"modules,omitempty" yaml:"modules,omitempty" mapstructure:"modules"`
		Group                  string           `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
		Repository             string           `json:"repository" yaml:"repository" mapstructure:"repository"`
		UI                     UIConfig         `json:"ui" yaml:"ui" mapstructure:"ui"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		VersionCatalog: VersionCatalogConfig{Path: DefaultCatalogPath, Name: modmap.DefaultCatalogName},
		Repository:     DefaultRepository,
		UI:             UIConfig{Color: ColorAuto},
	}
}

// String returns the string representation of the ColorMode.
func (m ColorMode) String() string { return string(m) }

// Validate returns nil if the ColorMode is one of the defined modes.
// The zero value is treated as ColorAuto.
func (m ColorMode) Validate() error {
	switch m {
	case "", ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return &InvalidColorModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// Validate checks the constraints the schema cannot express: unique unit
// directories, non-empty discovery paths and prefix rules, well-formed
// override coordinates.
func (c *Config) Validate() error {
	var errs []error
	if err := c.UI.Color.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, name := range slices.Sorted(maps.Keys(c.ModuleNameToGA)) {
		if err := modmap.Coordinate(c.ModuleNameToGA[name]).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("module_name_to_ga[%q]: %w", name, err))
		}
	}
	for i, rule := range c.ModuleNamePrefixToGroup {
		if strings.TrimSpace(rule.Prefix) == "" || strings.TrimSpace(rule.Group) == "" {
			errs = append(errs, fmt.Errorf("module_name_prefix_to_group[%d]: prefix and group are required", i))
		}
	}
	for i, dir := range c.Directories {
		if err := types.FilesystemPath(dir.Path).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("directories[%d].path: %w", i, err))
		}
	}
	seen := make(map[string]int)
	for i, m := range c.Modules {
		if err := types.FilesystemPath(m.Directory).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("modules[%d].directory: %w", i, err))
			continue
		}
		clean := filepath.Clean(m.Directory)
		if first, dup := seen[clean]; dup {
			errs = append(errs, fmt.Errorf("modules[%d]: duplicate directory %q (same as modules[%d])", i, m.Directory, first))
			continue
		}
		seen[clean] = i
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Mapping builds the immutable name mapping: the baseline plus the
// configured overrides and prefix rules.
func (c *Config) Mapping(baseline *modmap.Baseline) (*modmap.Mapping, error) {
	b := modmap.NewBuilder(baseline)
	for _, name := range slices.Sorted(maps.Keys(c.ModuleNameToGA)) {
		b.PutOverride(name, modmap.Coordinate(c.ModuleNameToGA[name]))
	}
	for _, rule := range c.ModuleNamePrefixToGroup {
		b.PutPrefixRule(rule.Prefix, rule.Group)
	}
	return b.Build()
}

// CatalogPath returns the absolute version catalog path for a build root.
func (c *Config) CatalogPath(root string) string {
	path := c.VersionCatalog.Path
	if path == "" {
		path = DefaultCatalogPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

// LoadCatalog reads the version catalog of a build root. A missing catalog
// file yields (nil, nil).
func (c *Config) LoadCatalog(root string) (*modmap.TOMLCatalog, error) {
	path := c.CatalogPath(root)
	if !fileExists(path) {
		return nil, nil
	}
	return modmap.LoadCatalog(path, c.VersionCatalog.Name)
}

// ShouldWarnForMissingVersions returns the configured value, defaulting to
// whether the version catalog file exists.
func (c *Config) ShouldWarnForMissingVersions(root string) bool {
	if c.WarnForMissingVersions != nil {
		return *c.WarnForMissingVersions
	}
	_, err := os.Stat(c.CatalogPath(root))
	return err == nil
}
