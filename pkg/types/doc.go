// Package types provides shared type definitions for the rindex MCP server.
//
// This package defines the per-package completion metadata tracked by the
// index: exported symbols, completion-type codes, and function signature
// information including formal-argument flags.
//
// # Core Types
//
// PackageInformation is the unit stored in the index, keyed by package name:
//
//	info := types.NewPackageInformation("dplyr")
//	info.Exports = []string{"filter", "mutate"}
//	info.Types = []int{types.CompletionFunction, types.CompletionFunction}
//
// FunctionInformation describes one function, including whether it performs
// non-standard evaluation and the flags of each declared formal argument.
//
// # Formal Flag Defaults
//
// When the metadata harvester omits a formal's flags, FormalInformation
// defaults to IsUsed=false, HasDefaultValue=true, MissingnessHandled=true.
// The asymmetry is intentional and matches the upstream harvesting
// convention; see NewFormalInformation.
package types
