package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/ids-analytics/pubstats/internal/fetcher"
)

var (
	payWorkbook string
	paySheet    string
	paySkipRows int
	payCodeCol  int
	payValueCol int
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Preview median pay figures from an earnings workbook",
	Long:  "Reads an ASHE-style workbook (or a ZIP containing one) and reports how many areas carry a usable median pay figure.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := payWorkbook
		if strings.EqualFold(filepath.Ext(path), ".zip") {
			tmpDir, err := os.MkdirTemp("", "pubstats-pay-*")
			if err != nil {
				return eris.Wrap(err, "pay: create temp directory")
			}
			defer os.RemoveAll(tmpDir) //nolint:errcheck

			extracted, err := fetcher.ExtractMatching(path, tmpDir, ".xlsx")
			if err != nil {
				return eris.Wrap(err, "pay: extract workbook")
			}
			path = extracted[0]
		}

		pay, err := fetcher.ReadPayTable(path, fetcher.PayTableOptions{
			XLSXOptions: fetcher.XLSXOptions{SheetName: paySheet, SkipRows: paySkipRows},
			CodeColumn:  payCodeCol,
			ValueColumn: payValueCol,
		})
		if err != nil {
			return eris.Wrap(err, "pay: read workbook")
		}

		values := make([]float64, 0, len(pay))
		for _, v := range pay {
			values = append(values, v)
		}

		fmt.Printf("Areas with pay figures: %d\n", len(pay))
		fmt.Printf("Mean median pay: £%.2f\n", stat.Mean(values, nil))
		return nil
	},
}

func init() {
	payCmd.Flags().StringVar(&payWorkbook, "workbook", "", "path to earnings workbook or ZIP (required)")
	payCmd.Flags().StringVar(&paySheet, "sheet", "All", "sheet name")
	payCmd.Flags().IntVar(&paySkipRows, "skip-rows", 5, "header rows to skip")
	payCmd.Flags().IntVar(&payCodeCol, "code-col", 1, "zero-based column holding the area code")
	payCmd.Flags().IntVar(&payValueCol, "value-col", 3, "zero-based column holding the median pay figure")
	_ = payCmd.MarkFlagRequired("workbook")
	rootCmd.AddCommand(payCmd)
}
