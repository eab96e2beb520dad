package runner

// Mode is a bit set of execution modes requested for the evaluation
// process.
type Mode int

const (
	// ModeVanilla runs the interpreter with a clean environment: no site
	// or user profiles, no workspace restore or save.
	ModeVanilla Mode = 1 << iota

	// ModeAugmented injects the metadata-harvesting entrypoint into the
	// session before the command expression is evaluated.
	ModeAugmented
)

// Command describes one evaluation-process invocation.
type Command struct {
	// Expression is the interpreter expression to evaluate, e.g.
	// .rs.getPackageInformation('pkgA','pkgB');
	Expression string

	// WorkingDir is the process working directory. Empty means inherit.
	WorkingDir string

	// Modes are the execution-mode flags for this invocation.
	Modes Mode
}

// Completion is delivered exactly once per started process, when it
// terminates.
type Completion struct {
	ExitStatus int
	Stdout     string
}

// CompletionHandler consumes a process completion. Implementations must
// tolerate being called from a different goroutine than Start's caller.
type CompletionHandler func(Completion)

// Runner starts evaluation processes. Start returns as soon as the process
// has been launched; the handler fires when it exits.
type Runner interface {
	Start(cmd Command, onCompleted CompletionHandler) error
}
