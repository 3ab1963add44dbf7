package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ids-analytics/pubstats/internal/report"
	"github.com/ids-analytics/pubstats/internal/stats"
)

var summaryCSVPath string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print descriptive statistics for every numeric column",
	RunE: func(cmd *cobra.Command, _ []string) error {
		obs, err := loadObservations(summaryCSVPath)
		if err != nil {
			return eris.Wrap(err, "summary: load dataset")
		}

		summaries, err := stats.DescribeAll(obs)
		if err != nil {
			return eris.Wrap(err, "summary: describe columns")
		}
		if err := report.WriteSummaryTable(os.Stdout, summaries); err != nil {
			return err
		}

		fmt.Println()
		return report.WriteCountryTable(os.Stdout, stats.CountByCountry(obs))
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryCSVPath, "csv", "", "path to dataset CSV (default from config)")
	rootCmd.AddCommand(summaryCmd)
}
