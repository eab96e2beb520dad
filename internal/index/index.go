package index

import (
	"context"
	"errors"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// ErrNotFound is returned when a requested package has no metadata entry.
var ErrNotFound = errors.New("not found")

// Index is the shared store of per-package completion metadata.
type Index interface {
	// RegisterPackages records the given names as known packages. Names
	// already present (registered or indexed) are left untouched.
	RegisterPackages(ctx context.Context, names []string) error

	// AllUnindexedPackages returns the names of registered packages that
	// have no metadata entry yet, in stable registration order.
	AllUnindexedPackages(ctx context.Context) ([]string, error)

	// HasInformation reports whether a metadata entry exists for the
	// package, including an empty placeholder entry.
	HasInformation(ctx context.Context, name string) (bool, error)

	// AddPackageInformation writes (or overwrites) the metadata entry for
	// the package. Last write wins; the record is replaced wholesale.
	AddPackageInformation(ctx context.Context, name string, info types.PackageInformation) error

	// GetPackage returns the metadata entry for the package, or
	// ErrNotFound when none exists.
	GetPackage(ctx context.Context, name string) (*types.PackageInformation, error)

	// ListPackages returns all known package names in registration order.
	ListPackages(ctx context.Context) ([]string, error)

	// Stats returns aggregate counts about the index.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases any resources held by the index.
	Close() error
}

// Open returns a SQLite-backed index when dbPath is non-empty, otherwise a
// session-local in-memory index.
func Open(dbPath string) (Index, error) {
	if dbPath == "" {
		return NewMemory(), nil
	}
	return NewSQLite(dbPath)
}

// Stats summarizes the state of the index.
type Stats struct {
	TotalPackages     int
	IndexedPackages   int
	UnindexedPackages int
	EmptyPlaceholders int
}
