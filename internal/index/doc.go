// Package index provides the shared package-metadata index consumed by the
// completion tooling and refreshed by the refresh engine.
//
// The index tracks two things per package name: whether the name is known
// at all (registered, typically by the library scanner), and whether
// detailed completion metadata has been harvested for it. Packages that are
// registered but carry no metadata are "unindexed" and are the population
// the refresh engine works through.
//
// Two implementations are provided:
//   - Memory: mutex-guarded in-process map, used by tests and as a
//     lightweight store for short-lived sessions.
//   - SQLite: persistent store using the same dual-driver build-tag scheme
//     as the rest of the project (mattn/go-sqlite3 under cgo,
//     modernc.org/sqlite otherwise). Nested metadata (exports, types,
//     formals) is stored as msgpack blobs.
//
// # Write Semantics
//
// AddPackageInformation is an idempotent whole-record upsert: a later
// refresh's record for the same package fully replaces an earlier one.
// There is no field-level merge and no versioning.
package index
