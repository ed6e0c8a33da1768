// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/config"
	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

// configReport is the effective configuration with its origin.
type configReport struct {
	Path   string         `json:"path,omitempty" yaml:"path,omitempty"`
	Config *config.Config `json:"config" yaml:"config"`
}

// newConfigCommand creates the `jpmsdeps config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jpmsdeps configuration",
		Long: `Manage jpmsdeps configuration.

Configuration is read from the first file found of:
  - the --config flag
  - <root>/jpmsdeps.cue
  - the user configuration directory:
      Linux: ~/.config/jpmsdeps/config.cue
      macOS: ~/Library/Application Support/jpmsdeps/config.cue
      Windows: %APPDATA%\jpmsdeps\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flags.root)
			if err != nil {
				return err
			}
			opts := loadOptions(flags, root)
			cfg, err := app.Config.Load(cmd.Context(), opts)
			if err != nil {
				if rendered, rerr := issue.Get(issue.ConfigLoadFailedId).Render(glamourStyle()); rerr == nil {
					fmt.Fprint(app.stderr, rendered)
				}
				return &ExitError{Code: types.ExitConfigError, Err: err}
			}
			path, _ := config.Locate(opts)
			return app.write(flags, &configReport{Path: path, Config: cfg})
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create jpmsdeps.cue in the build root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flags.root)
			if err != nil {
				return err
			}
			path, created, err := config.CreateProjectConfig(root)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Configuration already exists:"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flags.root)
			if err != nil {
				return err
			}
			path, err := config.Locate(loadOptions(flags, root))
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no configuration file, using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

// Text implements report.Texter.
func (r *configReport) Text() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Current Configuration") + "\n\n")
	source := SubtitleStyle.Render("(using defaults)")
	if r.Path != "" {
		source = r.Path
	}
	fmt.Fprintf(&sb, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	sb.WriteString(config.GenerateCUE(r.Config))
	return sb.String()
}
