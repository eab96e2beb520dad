package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodePackageNotIndexed = -32001 // Package has no metadata entry
)

// handleGetPackageInfo handles the get_package_info tool invocation
func (s *Server) handleGetPackageInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	pkg, ok := args["package"].(string)
	if !ok || pkg == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "package parameter is required", map[string]interface{}{
			"param":  "package",
			"reason": "missing or empty",
		})
	}

	info, err := s.index.GetPackage(ctx, pkg)
	if errors.Is(err, index.ErrNotFound) {
		return nil, newMCPError(ErrorCodePackageNotIndexed, "package not indexed", map[string]interface{}{
			"package": pkg,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "index lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(packageResponse(info))), nil
}

// handleRefreshIndex handles the refresh_index tool invocation
func (s *Server) handleRefreshIndex(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alreadyRunning := s.coordinator.InProgress()
	if !alreadyRunning {
		s.coordinator.Update(ctx)
	}

	response := map[string]interface{}{
		"started":          !alreadyRunning,
		"already_running":  alreadyRunning,
		"pending_packages": s.coordinator.Pending(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexStatus handles the index_status tool invocation
func (s *Server) handleIndexStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to compute index stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"total_packages":     stats.TotalPackages,
			"indexed_packages":   stats.IndexedPackages,
			"unindexed_packages": stats.UnindexedPackages,
			"empty_placeholders": stats.EmptyPlaceholders,
		},
		"refresh": map[string]interface{}{
			"in_progress":      s.coordinator.InProgress(),
			"pending_packages": s.coordinator.Pending(),
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRegisterPackages handles the register_packages tool invocation
func (s *Server) handleRegisterPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	raw, ok := args["packages"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "packages parameter is required", map[string]interface{}{
			"param":  "packages",
			"reason": "missing or empty",
		})
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		name, ok := item.(string)
		if !ok || name == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "packages must be non-empty strings", map[string]interface{}{
				"param": "packages",
				"value": item,
			})
		}
		names = append(names, name)
	}

	if err := s.index.RegisterPackages(ctx, names); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to register packages", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"registered": len(names),
		"packages":   names,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// packageResponse shapes one index entry for tool output.
func packageResponse(info *types.PackageInformation) map[string]interface{} {
	functions := make(map[string]interface{}, len(info.FunctionInfo))
	for name, fn := range info.FunctionInfo {
		formals := make([]map[string]interface{}, 0, len(fn.Formals))
		for _, formal := range fn.Formals {
			formals = append(formals, map[string]interface{}{
				"name":                formal.Name,
				"is_used":             formal.IsUsed,
				"has_default":         formal.HasDefaultValue,
				"missingness_handled": formal.MissingnessHandled,
			})
		}
		functions[name] = map[string]interface{}{
			"performs_nse": fn.PerformsNse,
			"is_primitive": fn.IsPrimitive,
			"formals":      formals,
		}
	}

	return map[string]interface{}{
		"package":       info.Package,
		"exports":       info.Exports,
		"types":         info.Types,
		"function_info": functions,
		"empty":         info.IsEmpty(),
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
