// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/config"
	"github.com/jpmsdeps/jpmsdeps/internal/watch"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		strict   bool
		debounce time.Duration
		ignore   []string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the ordering check and wiring when descriptors change",
		Long: `Re-run the ordering check and wiring when descriptors change.

Every module-info.java below the build root and the configuration file are
watched. Changes are batched; one run happens per batch. Press Ctrl+C to
stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flags.root)
			if err != nil {
				return fmt.Errorf("resolve build root: %w", err)
			}
			var files []string
			if cfgPath, err := config.Locate(loadOptions(flags, root)); err == nil && cfgPath != "" {
				files = append(files, cfgPath)
			}

			run := func(ctx context.Context, changed []string) error {
				if len(changed) > 0 {
					app.logger.Info("change detected", "files", changed)
				}
				if err := runWatchIteration(ctx, app, flags, strict); err != nil {
					fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, app.verbose))
					return nil
				}
				fmt.Fprintln(app.stderr, SuccessStyle.Render("✓ ")+"descriptors are consistent")
				return nil
			}

			w, err := watch.New(watch.Config{
				Root:     root,
				Ignore:   ignore,
				Files:    files,
				Debounce: debounce,
				OnChange: run,
				Logger:   app.logger,
				Metrics:  app.Metrics,
			})
			if err != nil {
				return err
			}

			// Run once before waiting for changes.
			_ = run(cmd.Context(), nil)
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching for descriptor changes. Press Ctrl+C to stop."))
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat modules without a mapping as failures")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "delay before a batch of changes is processed")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "additional glob patterns to ignore (repeatable)")
	return cmd
}

// runWatchIteration reloads the workspace so configuration changes are
// picked up, then runs the ordering check and the wiring.
func runWatchIteration(ctx context.Context, app *App, flags *rootFlagValues, strict bool) error {
	ws, err := app.loadWorkspace(ctx, flags)
	if err != nil {
		return err
	}
	orderingErr := runOrderingCheck(ctx, app, flags, ws)
	r, wireErr := wireAll(ctx, ws, strict)
	if wireErr == nil {
		app.logger.Info("dependencies wired", "source_sets", len(r.SourceSets), "warnings", len(r.Diagnostics))
	}
	return errors.Join(orderingErr, wireErr)
}
