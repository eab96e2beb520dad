package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

func TestMemoryRegisterPackages(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	err := idx.RegisterPackages(ctx, []string{"base", "stats", "utils"})
	require.NoError(t, err)

	// Re-registration is a no-op
	err = idx.RegisterPackages(ctx, []string{"stats", "graphics", ""})
	require.NoError(t, err)

	names, err := idx.ListPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "stats", "utils", "graphics"}, names)
}

func TestMemoryAllUnindexedPackages(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	require.NoError(t, idx.RegisterPackages(ctx, []string{"base", "stats", "utils"}))

	pending, err := idx.AllUnindexedPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "stats", "utils"}, pending)

	require.NoError(t, idx.AddPackageInformation(ctx, "stats", types.NewPackageInformation("stats")))

	pending, err = idx.AllUnindexedPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "utils"}, pending)
}

func TestMemoryHasInformation(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	require.NoError(t, idx.RegisterPackages(ctx, []string{"base"}))

	has, err := idx.HasInformation(ctx, "base")
	require.NoError(t, err)
	assert.False(t, has, "registered but unrefreshed package has no information")

	// An empty placeholder still counts as information
	require.NoError(t, idx.AddPackageInformation(ctx, "base", types.NewPackageInformation("base")))
	has, err = idx.HasInformation(ctx, "base")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMemoryGetPackage(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	_, err := idx.GetPackage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	info := types.NewPackageInformation("dplyr")
	info.Exports = []string{"filter", "mutate"}
	info.Types = []int{types.CompletionFunction, types.CompletionFunction}
	require.NoError(t, idx.AddPackageInformation(ctx, "dplyr", info))

	got, err := idx.GetPackage(ctx, "dplyr")
	require.NoError(t, err)
	assert.Equal(t, []string{"filter", "mutate"}, got.Exports)
	assert.Equal(t, []int{types.CompletionFunction, types.CompletionFunction}, got.Types)
}

func TestMemoryLastWriteWins(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	first := types.NewPackageInformation("pkg")
	first.Exports = []string{"a", "b"}
	require.NoError(t, idx.AddPackageInformation(ctx, "pkg", first))

	second := types.NewPackageInformation("pkg")
	second.Exports = []string{"c"}
	require.NoError(t, idx.AddPackageInformation(ctx, "pkg", second))

	got, err := idx.GetPackage(ctx, "pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Exports, "replacement is wholesale, not a field merge")
}

func TestMemoryStats(t *testing.T) {
	idx := NewMemory()
	ctx := context.Background()

	require.NoError(t, idx.RegisterPackages(ctx, []string{"a", "b", "c"}))
	require.NoError(t, idx.AddPackageInformation(ctx, "a", types.NewPackageInformation("a")))

	full := types.NewPackageInformation("b")
	full.Exports = []string{"x"}
	require.NoError(t, idx.AddPackageInformation(ctx, "b", full))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPackages)
	assert.Equal(t, 2, stats.IndexedPackages)
	assert.Equal(t, 1, stats.UnindexedPackages)
	assert.Equal(t, 1, stats.EmptyPlaceholders)
}
