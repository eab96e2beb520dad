// Package runner launches the external evaluation process that harvests
// package metadata and delivers a single completion callback carrying the
// process's buffered standard output and exit status.
//
// The runner deliberately provides no cancellation or timeout: a refresh
// cycle holds its single-flight gate until the process exits, however long
// that takes. Callers that need liveness must address it at the process
// level, not here.
package runner
