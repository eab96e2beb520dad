package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcomplete/rindex-mcp/internal/index"
)

func makeLibrary(t *testing.T, packages ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, pkg := range packages {
		pkgDir := filepath.Join(dir, pkg)
		require.NoError(t, os.MkdirAll(pkgDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "DESCRIPTION"),
			[]byte("Package: "+pkg+"\n"), 0644))
	}
	return dir
}

func TestScanFindsPackages(t *testing.T) {
	lib := makeLibrary(t, "dplyr", "ggplot2")

	// A directory without a DESCRIPTION file is not a package.
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "_cache"), 0755))
	// Neither is a stray file.
	require.NoError(t, os.WriteFile(filepath.Join(lib, "README"), []byte("x"), 0644))

	s := NewScanner([]string{lib})
	names, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dplyr", "ggplot2"}, names)
}

func TestScanMergesAndDeduplicatesPaths(t *testing.T) {
	libA := makeLibrary(t, "base", "stats")
	libB := makeLibrary(t, "stats", "utils")

	s := NewScanner([]string{libA, libB})
	names, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "stats", "utils"}, names)
}

func TestScanSkipsMissingPath(t *testing.T) {
	lib := makeLibrary(t, "base")

	s := NewScanner([]string{"/does/not/exist", lib})
	names, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, names)
}

func TestPopulateRegistersWithIndex(t *testing.T) {
	lib := makeLibrary(t, "base", "stats")
	idx := index.NewMemory()
	ctx := context.Background()

	s := NewScanner([]string{lib})
	n, err := s.Populate(ctx, idx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := idx.AllUnindexedPackages(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"base", "stats"}, pending)
}
