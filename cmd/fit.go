package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/report"
	"github.com/ids-analytics/pubstats/internal/stats"
	"github.com/ids-analytics/pubstats/internal/store"
)

var (
	fitCSVPath   string
	fitResponse  string
	fitPredictor string
	fitExclude   []string
	fitScale     float64
	fitSave      bool
	fitFormat    string
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a least-squares line between two dataset columns",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		response, err := dataset.ParseColumn(fitResponse)
		if err != nil {
			return eris.Wrap(err, "fit: response column")
		}
		predictor, err := dataset.ParseColumn(fitPredictor)
		if err != nil {
			return eris.Wrap(err, "fit: predictor column")
		}

		obs, err := loadObservations(fitCSVPath)
		if err != nil {
			return eris.Wrap(err, "fit: load dataset")
		}

		filtered := dataset.ExcludeAreas(obs, fitExclude...)
		model, err := stats.Fit(filtered, response, predictor)
		if err != nil {
			return eris.Wrap(err, "fit: fit model")
		}

		switch fitFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(model); err != nil {
				return eris.Wrap(err, "fit: encode model")
			}
		case "table":
			if err := report.WriteModelTable(os.Stdout, model); err != nil {
				return err
			}
			if fitScale != 0 {
				fmt.Printf("\nRescaled slope (×%s): %s (%s)\n",
					report.Magnitude(fitScale, 1),
					report.Magnitude(model.Slope, fitScale),
					report.Direction(model.Slope),
				)
			}
		default:
			return eris.Errorf("fit: unknown format %q", fitFormat)
		}

		if fitSave {
			st, err := initStore(ctx)
			if err != nil {
				return eris.Wrap(err, "fit: init store")
			}
			defer st.Close() //nolint:errcheck

			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "fit: migrate store")
			}

			snap := &store.FitSnapshot{Model: *model, Excluded: fitExclude}
			if err := st.SaveFit(ctx, snap); err != nil {
				return eris.Wrap(err, "fit: save snapshot")
			}
			zap.L().Info("fit: snapshot saved", zap.String("id", snap.ID))
		}

		return nil
	},
}

func init() {
	fitCmd.Flags().StringVar(&fitCSVPath, "csv", "", "path to dataset CSV (default from config)")
	fitCmd.Flags().StringVar(&fitResponse, "response", string(dataset.ColPubsPerCapita), "response column")
	fitCmd.Flags().StringVar(&fitPredictor, "predictor", string(dataset.ColMedianPay2017), "predictor column")
	fitCmd.Flags().StringSliceVar(&fitExclude, "exclude", nil, "area names to exclude before fitting")
	fitCmd.Flags().Float64Var(&fitScale, "scale", 0, "also report the slope per this many predictor units")
	fitCmd.Flags().BoolVar(&fitSave, "save", false, "persist the fitted model to the store")
	fitCmd.Flags().StringVar(&fitFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(fitCmd)
}
