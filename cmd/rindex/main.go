package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/rcomplete/rindex-mcp/internal/config"
	"github.com/rcomplete/rindex-mcp/internal/index"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rindex",
	Short: "Package-metadata index for code completion",
	Long:  "rindex maintains a persistent index of per-package completion metadata, refreshed by an external evaluation process, and serves it to editor tooling over MCP.",
}

func main() {
	rootCmd.Version = fmt.Sprintf("%s (built %s, %s sqlite driver)", version, buildTime, index.BuildMode)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(),
		"path to the TOML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configured file and sets up logging. Log output
// goes to stderr: stdout is reserved for the MCP protocol and command
// output.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	commonlog.Configure(cfg.Verbosity, nil)
	return cfg, nil
}
