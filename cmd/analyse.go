package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/report"
	"github.com/ids-analytics/pubstats/internal/stats"
)

var (
	analyseCSVPath string
	analyseExclude []string
	analyseScale   float64
)

var analyseCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Run the full analysis: missing values, outlier filter, regression",
	RunE: func(cmd *cobra.Command, _ []string) error {
		obs, err := loadObservations(analyseCSVPath)
		if err != nil {
			return eris.Wrap(err, "analyse: load dataset")
		}
		zap.L().Info("analyse: dataset loaded", zap.Int("rows", len(obs)))

		missing := dataset.MissingReport(obs)
		if len(missing) > 0 {
			fmt.Println("Missing values:")
			if err := report.WriteMissingTable(os.Stdout, missing); err != nil {
				return err
			}
			fmt.Println()
		}

		exclude := analyseExclude
		if len(exclude) == 0 {
			exclude = cfg.Analysis.ExcludeAreas
		}
		filtered := dataset.ExcludeAreas(obs, exclude...)
		zap.L().Info("analyse: outliers excluded",
			zap.Strings("areas", exclude),
			zap.Int("remaining", len(filtered)),
		)

		model, err := stats.Fit(filtered, dataset.ColPubsPerCapita, dataset.ColMedianPay2017)
		if err != nil {
			return eris.Wrap(err, "analyse: fit model")
		}

		if err := report.WriteModelTable(os.Stdout, model); err != nil {
			return err
		}
		fmt.Println()

		scale := analyseScale
		if scale == 0 {
			scale = cfg.Analysis.Scale
		}
		fmt.Printf("For every £1 increase in median pay, pubs per %s people %s by %s.\n",
			report.Magnitude(scale, 1),
			report.Direction(model.Slope),
			report.Magnitude(model.Slope, scale),
		)

		return nil
	},
}

func init() {
	analyseCmd.Flags().StringVar(&analyseCSVPath, "csv", "", "path to dataset CSV (default from config)")
	analyseCmd.Flags().StringSliceVar(&analyseExclude, "exclude", nil, "area names to exclude (default from config)")
	analyseCmd.Flags().Float64Var(&analyseScale, "scale", 0, "report slope per this many pay units (default from config)")
	rootCmd.AddCommand(analyseCmd)
}
