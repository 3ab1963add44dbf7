package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pubstats",
	Short: "Regression analysis of pub provision across UK local authorities",
	Long:  "Loads the joined local-authority pubs dataset, reports missing values, filters outlier areas, and fits pubs per capita against median pay.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
