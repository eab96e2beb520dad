// Package library discovers installed packages by scanning the
// interpreter's library paths. Discovered names are registered with the
// index so the refresh engine has a population of unindexed packages to
// work through.
package library

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/rcomplete/rindex-mcp/internal/index"
)

var log = commonlog.GetLogger("rindex.library")

// Scanner discovers installed packages under a set of library paths.
type Scanner struct {
	// Paths are the library directories to scan, in priority order.
	Paths []string
}

// NewScanner creates a scanner over the given library paths.
func NewScanner(paths []string) *Scanner {
	return &Scanner{Paths: paths}
}

// Scan walks each library path concurrently and returns the names of the
// packages found, sorted and de-duplicated. A package is any directory
// containing a DESCRIPTION file. Unreadable paths are logged and skipped;
// only context cancellation aborts the scan.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	var mu sync.Mutex
	seen := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range s.Paths {
		g.Go(func() error {
			names, err := scanPath(gctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, name := range names {
				seen[name] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Populate scans the library paths and registers everything found with the
// index. Returns the number of packages discovered.
func (s *Scanner) Populate(ctx context.Context, idx index.Index) (int, error) {
	names, err := s.Scan(ctx)
	if err != nil {
		return 0, err
	}
	if err := idx.RegisterPackages(ctx, names); err != nil {
		return 0, err
	}
	log.Infof("registered %d packages from %d library paths", len(names), len(s.Paths))
	return len(names), nil
}

// scanPath lists one library directory. Missing or unreadable directories
// are not an error; the other paths still contribute.
func scanPath(ctx context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Warningf("skipping unreadable library path %q: %v", path, err)
		return nil, nil
	}

	var names []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		// Installed packages carry a DESCRIPTION file at their root.
		if _, err := os.Stat(filepath.Join(path, entry.Name(), "DESCRIPTION")); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}
