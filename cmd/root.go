package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Karthik-beta/data-app/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "data-app",
	Short: "Company registry browsing dashboard",
	Long:  "Serves an authenticated JSON API over the company registry dataset: cursor-paginated filtered listing, filter-option discovery, and an analytics summary.",
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
