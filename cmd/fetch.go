package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ids-analytics/pubstats/internal/fetcher"
)

var fetchDestDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the source files the dataset is built from",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		destDir := fetchDestDir
		if destDir == "" {
			destDir = cfg.Fetch.DestDir
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return eris.Wrap(err, "fetch: create destination directory")
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		})

		paths, err := fetcher.FetchAll(ctx, f, destDir, fetcher.DefaultSources())
		if err != nil {
			return eris.Wrap(err, "fetch: download sources")
		}

		zap.L().Info("fetch complete",
			zap.Int("sources", len(paths)),
			zap.String("dest", destDir),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDestDir, "dest", "", "destination directory (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
