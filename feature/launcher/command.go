package launcher

import (
	"context"
	"io"
	"os/exec"
	"time"
)

// Command is a started or startable server process.
type Command interface {
	StdinPipe() (io.WriteCloser, error)
	StdoutPipe() (io.ReadCloser, error)
	StderrPipe() (io.ReadCloser, error)
	Start() error
	Wait() error
	// Pid is valid after Start.
	Pid() int
	// ExitCode is valid after Wait; -1 when the process was killed by a signal.
	ExitCode() int
}

// CommandFactory builds the Command for spec. The command must stop when ctx is done.
type CommandFactory func(ctx context.Context, spec *LaunchSpec) Command

type execCommand struct {
	*exec.Cmd
}

// newExecCommand runs spec.Argv in spec.Dir. When ctx is done the process is asked to
// stop and is killed if it is still running after stopTimeout.
func newExecCommand(ctx context.Context, spec *LaunchSpec, stopTimeout time.Duration) *execCommand {
	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Cancel = func() error {
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = stopTimeout
	return &execCommand{Cmd: cmd}
}

func (c *execCommand) Pid() int {
	if c.Process == nil {
		return 0
	}
	return c.Process.Pid
}

func (c *execCommand) ExitCode() int {
	if c.ProcessState == nil {
		return -1
	}
	return c.ProcessState.ExitCode()
}
