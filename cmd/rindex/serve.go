package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the index over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Log startup info to stderr (stdout reserved for MCP protocol)
		log.SetOutput(os.Stderr)
		log.Printf("rindex MCP server v%s starting...", version)
		log.Printf("Build Mode: %s, Driver: %s", index.BuildMode, index.DriverName)
		log.Printf("Config: %s", cfg)

		server, err := mcp.NewServer(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			log.Println("MCP server ready, listening on stdio...")
			errChan <- server.Serve(ctx)
		}()

		select {
		case sig := <-sigChan:
			log.Printf("Received signal %v, shutting down gracefully...", sig)
			cancel()
		case err := <-errChan:
			if err != nil {
				return err
			}
		}

		log.Println("Server stopped")
		return nil
	},
}
