// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jpmsdeps/jpmsdeps/internal/report"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

type recommendFlagValues struct {
	offline        bool
	platform       bool
	catalog        bool
	propertiesFile string
}

func newRecommendCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rf := &recommendFlagValues{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend the latest stable versions of the required modules",
		Long: `Recommend the latest stable versions of the required modules.

The coordinates of every external module required by the build are looked
up in the configured Maven repository. Pre-release versions are skipped.
With --offline, versions are taken from the version catalog instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.loadWorkspace(cmd.Context(), flags)
			if err != nil {
				return err
			}
			coords, err := requiredCoordinates(cmd.Context(), ws)
			if err != nil {
				return err
			}

			var src report.VersionSource
			if rf.offline {
				src = report.CatalogSource{Mapping: ws.mapping, Catalog: ws.catalog}
			} else {
				src = app.Versions(ws.cfg.Repository, app.logger)
			}
			app.logger.Debug("looking up versions", "components", len(coords), "offline", rf.offline)
			components, _ := report.LatestVersions(cmd.Context(), coords, src, app.logger)

			r := report.RecommendVersions(components, ws.mapping, report.RecommendOptions{
				Platform:       rf.platform,
				Catalog:        rf.catalog,
				PropertiesFile: rf.propertiesFile,
			})
			return app.write(flags, r)
		},
	}
	cmd.Flags().BoolVar(&rf.offline, "offline", false, "take versions from the version catalog")
	cmd.Flags().BoolVar(&rf.platform, "platform", true, "print a platform moduleInfo block")
	cmd.Flags().BoolVar(&rf.catalog, "catalog", false, "print [versions] entries for the version catalog")
	cmd.Flags().StringVar(&rf.propertiesFile, "properties-file", "", "print name=version lines for this properties file")
	return cmd
}

// requiredCoordinates wires the workspace without strictness and returns
// the coordinates of every external declaration.
func requiredCoordinates(ctx context.Context, ws *workspace) ([]modmap.Coordinate, error) {
	r, err := wireAll(ctx, ws, false)
	if err != nil {
		return nil, err
	}
	var coords []modmap.Coordinate
	for _, s := range r.SourceSets {
		for _, d := range s.Declarations {
			if d.Coordinate != "" {
				coords = append(coords, d.Coordinate)
			}
		}
	}
	return coords, nil
}
