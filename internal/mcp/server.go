package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/rcomplete/rindex-mcp/internal/config"
	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/internal/library"
	"github.com/rcomplete/rindex-mcp/internal/refresh"
	"github.com/rcomplete/rindex-mcp/internal/runner"
)

var log = commonlog.GetLogger("rindex.mcp")

const (
	// ServerName is the MCP server name
	ServerName = "rindex-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp         *server.MCPServer
	index       index.Index
	coordinator *refresh.Coordinator
	scanner     *library.Scanner
	cfg         *config.Config
}

// NewServer creates a new MCP server instance from the given configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	idx, err := openIndex(cfg)
	if err != nil {
		return nil, err
	}

	run := runner.NewExecRunner(cfg.Interpreter, cfg.SupportScript)
	coordinator := refresh.NewCoordinator(idx, run)
	coordinator.WorkingDir = cfg.WorkingDir

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:         mcpServer,
		index:       idx,
		coordinator: coordinator,
		scanner:     library.NewScanner(cfg.LibraryPaths),
		cfg:         cfg,
	}

	if err := s.registerTools(); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// openIndex selects the index backend: SQLite when a database path is
// configured, otherwise a session-local in-memory index.
func openIndex(cfg *config.Config) (index.Index, error) {
	if cfg.DatabasePath == "" {
		log.Info("no database path configured; using in-memory index")
	} else if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	idx, err := index.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize index: %w", err)
	}
	return idx, nil
}

// Serve populates the index from the configured library paths, kicks off
// the initial refresh cycle, and blocks serving MCP on stdio until
// shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.index.Close() }()

	if len(s.cfg.LibraryPaths) > 0 {
		if _, err := s.scanner.Populate(ctx, s.index); err != nil {
			log.Errorf("library scan failed: %v", err)
		} else {
			s.coordinator.Update(ctx)
		}
	}

	if interval := time.Duration(s.cfg.RefreshInterval); interval > 0 {
		go s.coordinator.RunPeriodic(ctx, interval)
	}

	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(getPackageInfoTool(), s.handleGetPackageInfo)
	s.mcp.AddTool(refreshIndexTool(), s.handleRefreshIndex)
	s.mcp.AddTool(indexStatusTool(), s.handleIndexStatus)
	s.mcp.AddTool(registerPackagesTool(), s.handleRegisterPackages)
	return nil
}
