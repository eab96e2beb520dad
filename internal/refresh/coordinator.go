package refresh

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/rcomplete/rindex-mcp/internal/index"
	"github.com/rcomplete/rindex-mcp/internal/runner"
	"github.com/rcomplete/rindex-mcp/pkg/types"
)

var log = commonlog.GetLogger("rindex.refresh")

// harvestEntrypoint is the evaluation-side function that emits one metadata
// record per package on stdout.
const harvestEntrypoint = ".rs.getPackageInformation"

// Coordinator owns the refresh lifecycle: it computes the pending-package
// set, launches the evaluation process, and merges its output into the
// index. At most one cycle runs at a time.
type Coordinator struct {
	index  index.Index
	runner runner.Runner

	// WorkingDir is passed through to the evaluation process.
	WorkingDir string

	gate Gate

	mu      sync.Mutex
	pending []string // snapshot of the cycle's scheduled packages
}

// NewCoordinator creates a refresh coordinator over the given index and
// process runner.
func NewCoordinator(idx index.Index, run runner.Runner) *Coordinator {
	return &Coordinator{index: idx, runner: run}
}

// Update starts a refresh cycle for all currently unindexed packages. It
// is a no-op when a cycle is already in progress or nothing is pending,
// and it never reports failure to its caller: all errors are terminal
// within the refresh subsystem.
func (c *Coordinator) Update(ctx context.Context) {
	if !c.gate.TryAcquire() {
		return
	}

	pending, err := c.index.AllUnindexedPackages(ctx)
	if err != nil {
		log.Errorf("failed to query unindexed packages: %v", err)
		c.gate.Release()
		return
	}
	if len(pending) == 0 {
		log.Debugf("no packages to update; bailing out")
		c.gate.Release()
		return
	}

	c.mu.Lock()
	c.pending = pending
	c.mu.Unlock()

	expression := synthesizeCommand(pending)
	log.Debugf("running command: '%s'", expression)

	err = c.runner.Start(runner.Command{
		Expression: expression,
		WorkingDir: c.WorkingDir,
		Modes:      runner.ModeVanilla | runner.ModeAugmented,
	}, c.onCompleted)
	if err != nil {
		// The completion handler will never fire. Leave the packages
		// unindexed so a later cycle can retry once the interpreter is
		// reachable again, but release the cycle state now.
		log.Errorf("failed to start evaluation process: %v", err)
		c.mu.Lock()
		c.pending = nil
		c.mu.Unlock()
		c.gate.Release()
	}
}

// onCompleted consumes the single completion callback for a launched
// process. The exit status is accepted but not inspected: whatever output
// exists is parsed either way. The completion guard runs on every exit
// path, including a panic inside parsing.
func (c *Coordinator) onCompleted(completion runner.Completion) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic while handling refresh output: %v", r)
		}
		c.completeUpdate()
	}()

	log.Debugf("completed async package metadata lookup (exit status %d)", completion.ExitStatus)

	stdout := completion.Stdout
	if stdout == "" || stdout == "\n" {
		log.Debugf("received empty response")
		return
	}

	ctx := context.Background()
	for _, info := range ParseOutput(stdout) {
		if err := c.index.AddPackageInformation(ctx, info.Package, info); err != nil {
			log.Errorf("failed to store metadata for package %q: %v", info.Package, err)
		}
	}
}

// completeUpdate is the cycle's guard: it gives empty entries to the
// scheduled packages that were never merged, clears the pending snapshot,
// and releases the gate. After it runs, every package in the snapshot has
// an index entry and a new cycle may start.
func (c *Coordinator) completeUpdate() {
	ctx := context.Background()

	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, name := range pending {
		has, err := c.index.HasInformation(ctx, name)
		if err != nil {
			log.Errorf("failed to check index entry for %q: %v", name, err)
			continue
		}
		if has {
			continue
		}
		if err := c.index.AddPackageInformation(ctx, name, types.NewPackageInformation(name)); err != nil {
			log.Errorf("failed to store placeholder for %q: %v", name, err)
		}
	}

	c.gate.Release()
}

// InProgress reports whether a refresh cycle currently holds the gate.
func (c *Coordinator) InProgress() bool {
	return c.gate.Held()
}

// Pending returns a copy of the current cycle's scheduled packages. Empty
// outside a cycle.
func (c *Coordinator) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := make([]string, len(c.pending))
	copy(pending, c.pending)
	return pending
}

// RunPeriodic calls Update on the given interval until the context is
// cancelled. Ticks that land while a cycle is in progress collapse into
// no-ops through the gate.
func (c *Coordinator) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Update(ctx)
		}
	}
}

// synthesizeCommand builds the evaluation expression invoking the harvest
// entrypoint with the pending package names, preserving index query order.
func synthesizeCommand(pkgs []string) string {
	var sb strings.Builder
	sb.WriteString(harvestEntrypoint)
	sb.WriteString("(")
	for i, pkg := range pkgs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("'")
		sb.WriteString(pkg)
		sb.WriteString("'")
	}
	sb.WriteString(");")
	return sb.String()
}
