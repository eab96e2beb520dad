// Package refresh implements the asynchronous refresh engine for the
// package-metadata index.
//
// A refresh cycle discovers which registered packages lack metadata,
// synthesizes a harvesting expression for the external evaluation process,
// launches it, and on completion decodes its newline-delimited output and
// merges each package record into the index. The engine guarantees that
// every package scheduled for a cycle ends up with an index entry (possibly
// an empty placeholder) once the cycle completes, whatever happens to the
// individual output lines.
//
// # Single Flight
//
// At most one refresh cycle runs at a time. Update calls while a cycle is
// in progress are collapsed into no-ops by an atomically-checked gate; the
// gate is released only by the cycle's completion guard, so a new cycle can
// never interleave with a prior cycle's finalization.
//
// # Failure Tolerance
//
// Output parsing is best-effort and line-scoped: a malformed line is logged
// and skipped without aborting the batch, array-coercion problems within a
// record degrade that record but never block its merge, and a function
// entry missing its formal-argument object aborts function extraction for
// that package only. None of these failures reach the caller of Update; the
// completion guard converts every failure mode into a consistent end state.
package refresh
