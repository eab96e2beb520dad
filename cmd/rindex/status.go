package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcomplete/rindex-mcp/internal/index"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			return fmt.Errorf("no database_path configured; status needs a persistent index")
		}

		idx, err := index.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() { _ = idx.Close() }()

		stats, err := idx.Stats(context.Background())
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("index: %s\n", cfg.DatabasePath)
		fmt.Printf("  total packages:     %d\n", stats.TotalPackages)
		color.Green("  indexed:            %d", stats.IndexedPackages)
		if stats.UnindexedPackages > 0 {
			color.Yellow("  awaiting refresh:   %d", stats.UnindexedPackages)
		} else {
			fmt.Printf("  awaiting refresh:   0\n")
		}
		if stats.EmptyPlaceholders > 0 {
			color.Yellow("  empty placeholders: %d", stats.EmptyPlaceholders)
		}
		return nil
	},
}
