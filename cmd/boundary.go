package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/boundary"
	"github.com/ids-analytics/pubstats/internal/fetcher"
)

var (
	boundaryShpPath string
	boundaryCSVPath string
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Load local authority boundaries and store them for mapping",
	Long:  "Parses a local authority district shapefile (or a ZIP archive containing one), encodes each geometry as EWKB, stores the features, and reports coverage against the dataset.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		shpPath, err := resolveShapefile(boundaryShpPath, os.MkdirTemp)
		if err != nil {
			return eris.Wrap(err, "boundary: resolve shapefile")
		}

		feats, err := boundary.ParseShapefile(shpPath, boundary.Options{
			CodeField: cfg.Boundary.CodeField,
			NameField: cfg.Boundary.NameField,
		})
		if err != nil {
			return eris.Wrap(err, "boundary: parse shapefile")
		}
		zap.L().Info("boundary: shapefile parsed", zap.Int("features", len(feats)))

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "boundary: init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "boundary: migrate store")
		}

		n, err := st.SaveBoundaries(ctx, feats)
		if err != nil {
			return eris.Wrap(err, "boundary: save features")
		}
		zap.L().Info("boundary: features stored", zap.Int64("count", n))

		total, err := st.BoundaryCount(ctx)
		if err != nil {
			return eris.Wrap(err, "boundary: count stored features")
		}

		obs, err := loadObservations(boundaryCSVPath)
		if err != nil {
			return eris.Wrap(err, "boundary: load dataset")
		}

		cov := boundary.CheckCoverage(obs, feats)
		fmt.Printf("Stored features: %d\n", total)
		fmt.Printf("Matched areas:   %d\n", cov.Matched)
		if len(cov.Unmatched) > 0 {
			fmt.Printf("Without geometry: %v\n", cov.Unmatched)
		}
		if len(cov.Extraneous) > 0 {
			fmt.Printf("Extra features:   %d\n", len(cov.Extraneous))
		}

		return nil
	},
}

// resolveShapefile returns the path to a .shp file. A ZIP archive is
// extracted whole into a fresh directory first: a shapefile is unusable
// without its .dbf and .shx siblings, so extraction cannot filter by
// extension. mkdirTemp is os.MkdirTemp outside of tests.
func resolveShapefile(path string, mkdirTemp func(dir, pattern string) (string, error)) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return path, nil
	}

	destDir, err := mkdirTemp("", "pubstats-boundary-")
	if err != nil {
		return "", eris.Wrap(err, "boundary: create extraction directory")
	}

	files, err := fetcher.ExtractZIP(path, destDir)
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".shp") {
			return f, nil
		}
	}
	return "", eris.Errorf("boundary: no .shp entry in %s", path)
}

func init() {
	boundaryCmd.Flags().StringVar(&boundaryShpPath, "shp", "", "path to boundary shapefile or ZIP archive (required)")
	boundaryCmd.Flags().StringVar(&boundaryCSVPath, "csv", "", "path to dataset CSV (default from config)")
	_ = boundaryCmd.MarkFlagRequired("shp")
	rootCmd.AddCommand(boundaryCmd)
}
