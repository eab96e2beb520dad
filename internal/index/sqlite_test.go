package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

func setupTestDB(t *testing.T) *SQLite {
	// Use in-memory database for testing
	idx, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NotNil(t, idx)
	return idx
}

func TestNewSQLite(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	assert.NotNil(t, idx.db)
}

func TestSQLiteRegisterAndList(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.RegisterPackages(ctx, []string{"base", "stats"}))
	require.NoError(t, idx.RegisterPackages(ctx, []string{"stats", "utils"}))

	names, err := idx.ListPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "stats", "utils"}, names)

	pending, err := idx.AllUnindexedPackages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "stats", "utils"}, pending)
}

func TestSQLiteHasInformation(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	ctx := context.Background()
	require.NoError(t, idx.RegisterPackages(ctx, []string{"base"}))

	has, err := idx.HasInformation(ctx, "base")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = idx.HasInformation(ctx, "never-registered")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, idx.AddPackageInformation(ctx, "base", types.NewPackageInformation("base")))
	has, err = idx.HasInformation(ctx, "base")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLiteRoundTrip(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	ctx := context.Background()

	info := types.NewPackageInformation("dplyr")
	info.Exports = []string{"filter", "mutate", "select"}
	info.Types = []int{types.CompletionFunction, types.CompletionFunction, types.CompletionFunction}

	fn := types.NewFunctionInformation("filter", "dplyr")
	fn.PerformsNse = true
	fn.AddFormal(types.NewFormalInformation(".data"))
	used := types.NewFormalInformation("...")
	used.IsUsed = true
	used.HasDefaultValue = false
	fn.AddFormal(used)
	info.FunctionInfo["filter"] = fn

	require.NoError(t, idx.AddPackageInformation(ctx, "dplyr", info))

	got, err := idx.GetPackage(ctx, "dplyr")
	require.NoError(t, err)
	assert.Equal(t, info.Exports, got.Exports)
	assert.Equal(t, info.Types, got.Types)
	require.Contains(t, got.FunctionInfo, "filter")

	gotFn := got.FunctionInfo["filter"]
	assert.True(t, gotFn.PerformsNse)
	assert.False(t, gotFn.IsPrimitive)
	require.Len(t, gotFn.Formals, 2)
	assert.Equal(t, ".data", gotFn.Formals[0].Name)
	assert.False(t, gotFn.Formals[0].IsUsed)
	assert.True(t, gotFn.Formals[0].HasDefaultValue)
	assert.True(t, gotFn.Formals[0].MissingnessHandled)
	assert.Equal(t, "...", gotFn.Formals[1].Name)
	assert.True(t, gotFn.Formals[1].IsUsed)
	assert.False(t, gotFn.Formals[1].HasDefaultValue)
}

func TestSQLiteGetPackageNotFound(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	ctx := context.Background()

	_, err := idx.GetPackage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Registered but never refreshed also reads as not found
	require.NoError(t, idx.RegisterPackages(ctx, []string{"pending"}))
	_, err = idx.GetPackage(ctx, "pending")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteLastWriteWins(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

	ctx := context.Background()

	first := types.NewPackageInformation("pkg")
	first.Exports = []string{"a", "b"}
	fn := types.NewFunctionInformation("a", "pkg")
	first.FunctionInfo["a"] = fn
	require.NoError(t, idx.AddPackageInformation(ctx, "pkg", first))

	second := types.NewPackageInformation("pkg")
	second.Exports = []string{"c"}
	require.NoError(t, idx.AddPackageInformation(ctx, "pkg", second))

	got, err := idx.GetPackage(ctx, "pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Exports)
	assert.Empty(t, got.FunctionInfo, "old function rows are dropped on replace")
}

func TestSQLiteStats(t *testing.T) {
	idx := setupTestDB(t)
	defer idx.Close()

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
