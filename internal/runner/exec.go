package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("rindex.runner")

// ExecRunner launches the interpreter binary via os/exec.
type ExecRunner struct {
	// Binary is the interpreter executable, e.g. "R".
	Binary string

	// SupportScript is the file defining the harvesting entrypoint. It is
	// sourced into the session when ModeAugmented is requested.
	SupportScript string
}

// NewExecRunner creates an ExecRunner for the given interpreter binary.
func NewExecRunner(binary, supportScript string) *ExecRunner {
	return &ExecRunner{Binary: binary, SupportScript: supportScript}
}

// Start launches the process and returns once it is running. The handler
// is invoked from a background goroutine when the process exits, whatever
// the exit status. Stdout is buffered in full until then; there is no
// incremental delivery and no timeout.
func (r *ExecRunner) Start(cmd Command, onCompleted CompletionHandler) error {
	if r.Binary == "" {
		return fmt.Errorf("no interpreter binary configured")
	}
	if onCompleted == nil {
		return fmt.Errorf("completion handler is required")
	}

	args := r.buildArgs(cmd)
	proc := exec.Command(r.Binary, args...)
	proc.Dir = cmd.WorkingDir

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if err := proc.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", r.Binary, err)
	}

	log.Debugf("started evaluation process: %s %v", r.Binary, args)

	go func() {
		exitStatus := 0
		if err := proc.Wait(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitStatus = exitErr.ExitCode()
			} else {
				exitStatus = -1
				log.Errorf("failed to wait for evaluation process: %v", err)
			}
		}
		if stderr.Len() > 0 {
			log.Debugf("evaluation process stderr: %s", stderr.String())
		}
		onCompleted(Completion{
			ExitStatus: exitStatus,
			Stdout:     stdout.String(),
		})
	}()

	return nil
}

// buildArgs maps the requested modes onto interpreter flags.
func (r *ExecRunner) buildArgs(cmd Command) []string {
	var args []string
	if cmd.Modes&ModeVanilla != 0 {
		args = append(args, "--vanilla")
	}
	args = append(args, "--no-echo")
	if cmd.Modes&ModeAugmented != 0 && r.SupportScript != "" {
		args = append(args, "-e", fmt.Sprintf("source(%q)", r.SupportScript))
	}
	args = append(args, "-e", cmd.Expression)
	return args
}
