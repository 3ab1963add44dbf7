package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ids-analytics/pubstats/internal/dataset"
	"github.com/ids-analytics/pubstats/internal/report"
)

var dictPath string

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Print the data dictionary for the joined dataset",
	RunE: func(_ *cobra.Command, _ []string) error {
		dict, err := loadDictionary(dictPath)
		if err != nil {
			return eris.Wrap(err, "dict: load dictionary")
		}
		return report.WriteDictionaryTable(os.Stdout, dict)
	},
}

// loadDictionary returns the embedded dictionary unless an override
// path is given.
func loadDictionary(path string) (*dataset.Dictionary, error) {
	if path == "" {
		return dataset.DefaultDictionary()
	}
	return dataset.LoadDictionary(path)
}

func init() {
	dictCmd.Flags().StringVar(&dictPath, "dictionary", "", "path to dictionary YAML override (default embedded)")
	rootCmd.AddCommand(dictCmd)
}
