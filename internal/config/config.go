// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/pkg/cueutil"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "jpmsdeps"
	// ProjectFileName is the configuration file looked up in the build root.
	ProjectFileName = AppName + ".cue"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. JPMSDEPS_GROUP.
	EnvPrefix = "JPMSDEPS"

	keyDelimiter = "::"
)

//go:embed config_schema.cue
var configSchema []byte

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the user config directory when set.
		ConfigDirPath types.FilesystemPath
		// Root is the build root searched for jpmsdeps.cue.
		Root types.FilesystemPath
	}

	// InvalidLoadOptionsError collects field-level errors of LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// Validate returns nil when every set path is well-formed. Empty fields are
// valid and mean "use the default".
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.Root} {
		if p == "" {
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// ConfigDir returns the jpmsdeps user configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configDir, AppName), nil
}

// Locate returns the config file that Load would read, or "" when the
// defaults apply.
func Locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return string(opts.ConfigFilePath), nil
	}
	root := string(opts.Root)
	if root == "" {
		root = "."
	}
	if project := filepath.Join(root, ProjectFileName); fileExists(project) {
		return project, nil
	}
	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	if user := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(user) {
		return user, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading and returns the
// configuration together with the file it came from ("" for defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	defaults := DefaultConfig()
	v.SetDefault("group", defaults.Group)
	v.SetDefault("repository", defaults.Repository)
	v.SetDefault("version_catalog::path", defaults.VersionCatalog.Path)
	v.SetDefault("version_catalog::name", defaults.VersionCatalog.Name)
	v.SetDefault("ui::verbose", defaults.UI.Verbose)
	v.SetDefault("ui::color", string(defaults.UI.Color))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" && !fileExists(string(opts.ConfigFilePath)) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(string(opts.ConfigFilePath)).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'jpmsdeps config init' to create a project configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}
	path, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}

	var raw map[string]any
	if path != "" {
		if raw, err = loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'jpmsdeps config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	// Viper folds key case; module names are case-sensitive.
	cfg.ModuleNameToGA = overrides(raw)

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Use the group:artifact form for module_name_to_ga values").
			WithSuggestion("List every unit directory in modules only once").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &cfg, path, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper, returning the decoded document.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := cueutil.DecodeMap(configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	if err := v.MergeConfigMap(values); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}
	return values, nil
}

func overrides(raw map[string]any) map[string]string {
	table, ok := raw["module_name_to_ga"].(map[string]any)
	if !ok || len(table) == 0 {
		return nil
	}
	out := make(map[string]string, len(table))
	for name, ga := range table {
		if s, ok := ga.(string); ok {
			out[name] = s
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateProjectConfig writes jpmsdeps.cue with the default configuration
// into root unless it already exists, and returns its path.
func CreateProjectConfig(root string) (string, bool, error) {
	path := filepath.Join(root, ProjectFileName)
	if fileExists(path) {
		return path, false, nil
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders a configuration as a CUE document accepted by the
// schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// jpmsdeps configuration\n\n")

	if cfg.Group != "" {
		fmt.Fprintf(&sb, "group: %q\n", cfg.Group)
	}
	fmt.Fprintf(&sb, "repository: %q\n", cfg.Repository)

	sb.WriteString("\nversion_catalog: {\n")
	fmt.Fprintf(&sb, "\tpath: %q\n", cfg.VersionCatalog.Path)
	fmt.Fprintf(&sb, "\tname: %q\n", cfg.VersionCatalog.Name)
	sb.WriteString("}\n")

	if cfg.WarnForMissingVersions != nil {
		fmt.Fprintf(&sb, "\nwarn_for_missing_versions: %v\n", *cfg.WarnForMissingVersions)
	}

	sb.WriteString("\nmodule_name_to_ga: {\n")
	for _, name := range slices.Sorted(maps.Keys(cfg.ModuleNameToGA)) {
		fmt.Fprintf(&sb, "\t%q: %q\n", name, cfg.ModuleNameToGA[name])
	}
	sb.WriteString("}\n")

	sb.WriteString("\nmodule_name_prefix_to_group: [\n")
	for _, rule := range cfg.ModuleNamePrefixToGroup {
		fmt.Fprintf(&sb, "\t{prefix: %q, group: %q},\n", rule.Prefix, rule.Group)
	}
	sb.WriteString("]\n")

	if len(cfg.Directories) > 0 {
		sb.WriteString("\ndirectories: [\n")
		for _, dir := range cfg.Directories {
			fmt.Fprintf(&sb, "\t{path: %q", dir.Path)
			if dir.Group != "" {
				fmt.Fprintf(&sb, ", group: %q", dir.Group)
			}
			if len(dir.Exclusions) > 0 {
				quoted := make([]string, len(dir.Exclusions))
				for i, e := range dir.Exclusions {
					quoted[i] = fmt.Sprintf("%q", e)
				}
				fmt.Fprintf(&sb, ", exclusions: [%s]", strings.Join(quoted, ", "))
			}
			sb.WriteString("},\n")
		}
		sb.WriteString("]\n")
	}

	if len(cfg.Modules) > 0 {
		sb.WriteString("\nmodules: [\n")
		for _, m := range cfg.Modules {
			fmt.Fprintf(&sb, "\t{directory: %q", m.Directory)
			if m.Artifact != "" {
				fmt.Fprintf(&sb, ", artifact: %q", m.Artifact)
			}
			if m.Group != "" {
				fmt.Fprintf(&sb, ", group: %q", m.Group)
			}
			sb.WriteString("},\n")
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	color := cfg.UI.Color
	if color == "" {
		color = ColorAuto
	}
	fmt.Fprintf(&sb, "\tcolor: %q\n", color)
	sb.WriteString("}\n")

	return sb.String()
}
