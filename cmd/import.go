package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCSVPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the dataset CSV into the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		obs, err := loadObservations(importCSVPath)
		if err != nil {
			return eris.Wrap(err, "import: load dataset")
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "import: init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "import: migrate store")
		}

		n, err := st.SaveObservations(ctx, obs)
		if err != nil {
			return eris.Wrap(err, "import: save observations")
		}

		zap.L().Info("import complete",
			zap.Int64("rows", n),
			zap.String("driver", cfg.Store.Driver),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to dataset CSV (default from config)")
	rootCmd.AddCommand(importCmd)
}
