package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcomplete/rindex-mcp/internal/index"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <package>",
	Short: "Print the indexed metadata for one package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			return fmt.Errorf("no database_path configured; dump needs a persistent index")
		}

		idx, err := index.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() { _ = idx.Close() }()

		info, err := idx.GetPackage(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("package %q: %w", args[0], err)
		}

		bold := color.New(color.Bold)
		bold.Printf("package %s\n", info.Package)
		if info.IsEmpty() {
			color.Yellow("  (empty placeholder: last refresh produced no metadata)")
			return nil
		}

		fmt.Printf("  exports (%d): %s\n", len(info.Exports), strings.Join(info.Exports, ", "))
		fmt.Printf("  functions (%d):\n", len(info.FunctionInfo))
		for name, fn := range info.FunctionInfo {
			formals := make([]string, 0, len(fn.Formals))
			for _, formal := range fn.Formals {
				formals = append(formals, formal.Name)
			}
			nse := ""
			if fn.PerformsNse {
				nse = " [nse]"
			}
			fmt.Printf("    %s(%s)%s\n", name, strings.Join(formals, ", "), nse)
		}
		return nil
	},
}
