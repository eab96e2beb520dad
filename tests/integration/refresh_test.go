package integration

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/internal/library"
	"github.com/rcomplete/rindex-mcp/internal/refresh"
	"github.com/rcomplete/rindex-mcp/internal/runner"
)

// scriptedRunner stands in for the evaluation process: it replies to every
// launch with a canned stdout, delivered synchronously like a process that
// exited immediately.
type scriptedRunner struct {
	mu     sync.Mutex
	stdout string
	status int
	calls  []runner.Command
}

func (r *scriptedRunner) Start(cmd runner.Command, onCompleted runner.CompletionHandler) error {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	stdout, status := r.stdout, r.status
	r.mu.Unlock()
	onCompleted(runner.Completion{ExitStatus: status, Stdout: stdout})
	return nil
}

func makeLibrary(t *testing.T, packages ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, pkg := range packages {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, pkg), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, pkg, "DESCRIPTION"),
			[]byte("Package: "+pkg+"\n"), 0644))
	}
	return dir
}

// TestScanRefreshPersistRoundTrip drives the full pipeline against a real
// SQLite file: scan a library, refresh through a scripted harvester,
// reopen the database, and read the metadata back.
func TestScanRefreshPersistRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rindex.db")
	ctx := context.Background()

	idx, err := index.NewSQLite(dbPath)
	require.NoError(t, err)

	lib := makeLibrary(t, "dplyr", "rlang")
	scanner := library.NewScanner([]string{lib})
	n, err := scanner.Populate(ctx, idx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	run := &scriptedRunner{stdout: `{"package":"dplyr","exports":["filter","mutate"],"types":[5,5],"function_info":{"filter":{"performs_nse":1,"formal_info":{".data":{"is_used":1,"has_default":0,"missingness_handled":1},"...":{}}}}}` + "\n"}
	coordinator := refresh.NewCoordinator(idx, run)
	coordinator.Update(ctx)

	// The scripted runner completes synchronously, so the cycle is done.
	require.False(t, coordinator.InProgress())
	require.Len(t, run.calls, 1)
	assert.Equal(t, ".rs.getPackageInformation('dplyr','rlang');", run.calls[0].Expression)

	// rlang produced no line: the guard left an empty placeholder.
	require.NoError(t, idx.Close())

	reopened, err := index.NewSQLite(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	dplyr, err := reopened.GetPackage(ctx, "dplyr")
	require.NoError(t, err)
	assert.Equal(t, []string{"filter", "mutate"}, dplyr.Exports)
	assert.Equal(t, []int{5, 5}, dplyr.Types)
	require.Contains(t, dplyr.FunctionInfo, "filter")
	filter := dplyr.FunctionInfo["filter"]
	assert.True(t, filter.PerformsNse)
	require.Len(t, filter.Formals, 2)
	assert.Equal(t, ".data", filter.Formals[0].Name)
	assert.True(t, filter.Formals[0].IsUsed)
	assert.False(t, filter.Formals[0].HasDefaultValue)

	rlang, err := reopened.GetPackage(ctx, "rlang")
	require.NoError(t, err)
	assert.True(t, rlang.IsEmpty())

	pending, err := reopened.AllUnindexedPackages(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "every scheduled package has an entry after the cycle")
}

// TestSecondCycleReplacesEntries checks whole-record replacement across
// two refresh cycles against the same database.
func TestSecondCycleReplacesEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rindex.db")
	ctx := context.Background()

	idx, err := index.NewSQLite(dbPath)
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.RegisterPackages(ctx, []string{"pkg"}))

	run := &scriptedRunner{stdout: `{"package":"pkg","exports":["old"],"types":[1],"function_info":{}}`}
	coordinator := refresh.NewCoordinator(idx, run)
	coordinator.Update(ctx)

	// Force pkg pending again by writing a fresher harvest in a second
	// cycle over a new package set.
	require.NoError(t, idx.RegisterPackages(ctx, []string{"other"}))
	run.mu.Lock()
	run.stdout = `{"package":"pkg","exports":["new","newer"],"types":[1,1],"function_info":{}}` + "\n" +
		`{"package":"other","exports":[],"types":[],"function_info":{}}`
	run.mu.Unlock()
	coordinator.Update(ctx)

	info, err := idx.GetPackage(ctx, "pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "newer"}, info.Exports)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPackages)
	assert.Equal(t, 2, stats.IndexedPackages)
	assert.Equal(t, 0, stats.UnindexedPackages)
}

// TestPlaceholderDoesNotLoseEarlierMetadata: a package that already has
// metadata keeps it when a later cycle's output omits it, because the
// guard only fills packages with no entry at all.
func TestPlaceholderDoesNotLoseEarlierMetadata(t *testing.T) {
	ctx := context.Background()
	idx := index.NewMemory()
	require.NoError(t, idx.RegisterPackages(ctx, []string{"keep"}))

	run := &scriptedRunner{stdout: `{"package":"keep","exports":["x"],"types":[1],"function_info":{}}`}
	coordinator := refresh.NewCoordinator(idx, run)
	coordinator.Update(ctx)

	info, err := idx.GetPackage(ctx, "keep")
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, info.Exports)

	// Second cycle over a different pending package returns nothing at
	// all; "keep" is untouched.
	require.NoError(t, idx.RegisterPackages(ctx, []string{"fresh"}))
	run.mu.Lock()
	run.stdout = ""
	run.mu.Unlock()
	coordinator.Update(ctx)

	info, err = idx.GetPackage(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, info.Exports)

	fresh, err := idx.GetPackage(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, fresh.IsEmpty())
}
