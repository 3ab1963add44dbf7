package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/report"
)

var missingCSVPath string

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Report columns with missing values and the areas affected",
	RunE: func(cmd *cobra.Command, _ []string) error {
		obs, err := loadObservations(missingCSVPath)
		if err != nil {
			return eris.Wrap(err, "missing: load dataset")
		}

		missing := dataset.MissingReport(obs)
		if len(missing) == 0 {
			fmt.Println("No missing values.")
			return nil
		}

		return report.WriteMissingTable(os.Stdout, missing)
	},
}

func init() {
	missingCmd.Flags().StringVar(&missingCSVPath, "csv", "", "path to dataset CSV (default from config)")
	rootCmd.AddCommand(missingCmd)
}
