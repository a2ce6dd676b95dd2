package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"msc/core/platform"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultStopTimeout = 10 * time.Second

// LaunchSpec is a fully resolved server invocation.
type LaunchSpec struct {
	// Dir is the absolute server directory, used as the working directory.
	Dir string
	// Jar is the jar as given on the command line, relative to Dir unless absolute.
	Jar string
	// Argv is the complete command line, starting with the Java executable.
	Argv []string
}

// Stdio are the streams relayed to and from the server.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher resolves and runs the server jar.
type Launcher struct {
	fs         afero.Fs
	cfg        Config
	opts       Options
	logger     *zap.Logger
	env        platform.Env
	newCommand CommandFactory
}

// NewLauncher creates a launcher checking paths on fsys.
func NewLauncher(fsys afero.Fs, cfg Config, opts Options, logger *zap.Logger) *Launcher {
	l := &Launcher{
		fs:     fsys,
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		env:    platform.Host(),
	}
	l.newCommand = func(ctx context.Context, spec *LaunchSpec) Command {
		return newExecCommand(ctx, spec, l.stopTimeout())
	}
	return l
}

// SetCommandFactory replaces how processes are created.
func (l *Launcher) SetCommandFactory(f CommandFactory) {
	l.newCommand = f
}

// SetPlatform replaces the host view used for the default server directory.
func (l *Launcher) SetPlatform(env platform.Env) {
	l.env = env
}

func (l *Launcher) stopTimeout() time.Duration {
	if l.cfg.StopTimeoutSeconds <= 0 {
		return defaultStopTimeout
	}
	return time.Duration(l.cfg.StopTimeoutSeconds) * time.Second
}

// ServerDir returns the absolute server directory for dir.
//
// An empty dir falls back to the configured directory, then to the platform default.
// A *NotFoundError is returned when the result is not an existing directory.
func (l *Launcher) ServerDir(dir string) (string, error) {
	if dir == "" {
		dir = l.cfg.ServerDir
	}
	if dir == "" {
		def, err := platform.DefaultServerDir(l.env)
		if err != nil {
			return "", fmt.Errorf("failed to determine default server directory: %w", err)
		}
		dir = def
	}

	abs, err := platform.Abs(l.env, dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := l.fs.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", &NotFoundError{Kind: "server directory", Path: abs}
	}
	return abs, nil
}

// CheckJar returns a *NotFoundError unless jar is a regular file in dir.
func (l *Launcher) CheckJar(dir, jar string) error {
	if strings.TrimSpace(jar) == "" {
		return &NotFoundError{Kind: "jar", Path: dir}
	}

	path := jar
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, jar)
	}

	info, err := l.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return &NotFoundError{Kind: "jar", Path: path}
	}
	return nil
}

// Validate checks the Java configuration and server options.
func (l *Launcher) Validate() error {
	if err := l.cfg.Validate(); err != nil {
		return err
	}
	return l.opts.Validate()
}

// Resolve checks the server directory and jar and builds the command line.
func (l *Launcher) Resolve(jar, dir string) (*LaunchSpec, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	dir, err := l.ServerDir(dir)
	if err != nil {
		return nil, err
	}
	if err := l.CheckJar(dir, jar); err != nil {
		return nil, err
	}

	return &LaunchSpec{Dir: dir, Jar: jar, Argv: l.argv(jar)}, nil
}

func (l *Launcher) argv(jar string) []string {
	argv := []string{l.cfg.JavaPath}
	if l.cfg.MinMemory != "" {
		argv = append(argv, "-Xms"+l.cfg.MinMemory)
	}
	if l.cfg.MaxMemory != "" {
		argv = append(argv, "-Xmx"+l.cfg.MaxMemory)
	}
	argv = append(argv, strings.Fields(l.cfg.JVMFlags)...)
	argv = append(argv, "-jar", jar)
	return append(argv, l.opts.Args()...)
}

// Launch runs the server described by spec until it exits and returns its exit code.
//
// The server's output and error streams are copied to stdio by two tasks, and a third
// task feeds stdio.Stdin to the server, closing the server's input when the source
// ends. Launch returns once the process has exited and both output streams are fully
// copied; the input task is not waited for, since it may be blocked on a terminal.
// When ctx is done the server is signalled to stop and, after the configured stop
// timeout, killed. A process ended by a signal reports exit code 1.
//
// A *SpawnError is returned when the process cannot be started. The launch is never
// retried.
func (l *Launcher) Launch(ctx context.Context, spec *LaunchSpec, stdio Stdio) (int, error) {
	cmd := l.newCommand(ctx, spec)
	program := spec.Argv[0]

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return -1, &SpawnError{Program: program, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, &SpawnError{Program: program, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, &SpawnError{Program: program, Err: err}
	}

	l.logger.Info("Starting server", zap.String("dir", spec.Dir), zap.Strings("argv", spec.Argv))
	if err := cmd.Start(); err != nil {
		return -1, &SpawnError{Program: program, Err: err}
	}
	log := l.logger.With(zap.Int("pid", cmd.Pid()))
	log.Info("Server started")

	if stdio.Stdin != nil {
		go func() {
			n, err := io.Copy(stdin, stdio.Stdin)
			log.Debug("Input relay finished", zap.Int64("bytes", n), zap.Error(err))
			_ = stdin.Close()
		}()
	} else {
		_ = stdin.Close()
	}

	var g errgroup.Group
	g.Go(func() error { return relay(stdio.Stdout, stdout) })
	g.Go(func() error { return relay(stdio.Stderr, stderr) })
	if err := g.Wait(); err != nil {
		log.Warn("Server output was not fully relayed", zap.Error(err))
	}

	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.As(waitErr, &exitErr), errors.Is(waitErr, exec.ErrWaitDelay):
	case ctx.Err() != nil && errors.Is(waitErr, ctx.Err()):
		// The server exited cleanly after being asked to stop.
	default:
		return -1, fmt.Errorf("failed to wait for server: %w", waitErr)
	}

	code := cmd.ExitCode()
	if code < 0 {
		code = 1
	}
	if ctx.Err() != nil {
		log.Info("Server stopped after interrupt", zap.Int("exit_code", code))
	} else {
		log.Info("Server exited", zap.Int("exit_code", code))
	}
	return code, nil
}

// relay copies src to dst. If dst fails, src is still drained so the server never
// blocks writing to a full pipe.
func relay(dst io.Writer, src io.Reader) error {
	if dst == nil {
		dst = io.Discard
	}
	_, err := io.Copy(dst, src)
	if err != nil {
		_, _ = io.Copy(io.Discard, src)
	}
	return err
}
