package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// getPackageInfoTool returns the tool definition for get_package_info
func getPackageInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_package_info",
		Description: "Look up the completion metadata indexed for one package",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"package": map[string]interface{}{
					"type":        "string",
					"description": "Package name to look up",
				},
			},
			Required: []string{"package"},
		},
	}
}

// refreshIndexTool returns the tool definition for refresh_index
func refreshIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_index",
		Description: "Start a refresh cycle for all packages that lack metadata. No-op when a cycle is already in progress.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// indexStatusTool returns the tool definition for index_status
func indexStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_status",
		Description: "Report index statistics and refresh-cycle state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// registerPackagesTool returns the tool definition for register_packages
func registerPackagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "register_packages",
		Description: "Register package names with the index so the next refresh cycle harvests their metadata",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"packages": map[string]interface{}{
					"type":        "array",
					"description": "Package names to register",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"packages"},
		},
	}
}
