// Package mcp exposes the package-metadata index to editor tooling as an
// MCP stdio server.
//
// Tools:
//   - get_package_info: look up the indexed metadata for one package
//   - refresh_index: start a refresh cycle (no-op while one is running)
//   - index_status: index statistics and refresh-cycle state
//   - register_packages: make package names known to the index
//
// Startup info is logged to stderr; stdout is reserved for the MCP
// protocol.
package mcp
