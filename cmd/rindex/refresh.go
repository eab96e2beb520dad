package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/internal/library"
	"github.com/rcomplete/rindex-mcp/internal/refresh"
	"github.com/rcomplete/rindex-mcp/internal/runner"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [package...]",
	Short: "Run one refresh cycle and wait for it to finish",
	Long: `Runs a single refresh cycle against the configured index. With no
arguments the configured library paths are scanned first; otherwise only
the named packages are registered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, err := index.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() { _ = idx.Close() }()

		ctx := context.Background()
		if len(args) > 0 {
			if err := idx.RegisterPackages(ctx, args); err != nil {
				return err
			}
		} else if len(cfg.LibraryPaths) > 0 {
			scanner := library.NewScanner(cfg.LibraryPaths)
			n, err := scanner.Populate(ctx, idx)
			if err != nil {
				return err
			}
			fmt.Printf("discovered %d packages\n", n)
		}

		pending, err := idx.AllUnindexedPackages(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			color.Green("index is up to date, nothing to refresh")
			return nil
		}
		fmt.Printf("refreshing %d packages...\n", len(pending))

		run := runner.NewExecRunner(cfg.Interpreter, cfg.SupportScript)
		coordinator := refresh.NewCoordinator(idx, run)
		coordinator.WorkingDir = cfg.WorkingDir
		coordinator.Update(ctx)

		// The cycle holds the gate until its completion guard runs; the
		// guard is also what guarantees every pending package has an
		// entry afterwards. No timeout, matching the engine itself.
		for coordinator.InProgress() {
			time.Sleep(100 * time.Millisecond)
		}

		empty := 0
		for _, name := range pending {
			info, err := idx.GetPackage(ctx, name)
			if err != nil {
				return fmt.Errorf("package %q has no entry after refresh: %w", name, err)
			}
			if info.IsEmpty() {
				empty++
				color.Yellow("  %s: no metadata harvested", name)
			} else {
				color.Green("  %s: %d exports, %d functions", name, len(info.Exports), len(info.FunctionInfo))
			}
		}

		fmt.Printf("done: %d refreshed, %d empty\n", len(pending)-empty, empty)
		return nil
	},
}
