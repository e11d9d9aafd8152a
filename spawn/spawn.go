// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package spawn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/procutil"
)

// DefaultGracePeriod is how long Stop waits after SIGTERM before killing.
const DefaultGracePeriod = 5 * time.Second

// ErrExited indicates the child exited before it was expected to.
var ErrExited = errors.New("process exited")

// Options configures Start.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the parent environment.
	Env []string
	// Stdout and Stderr receive a copy of the child's output when set.
	Stdout io.Writer
	Stderr io.Writer
	// OnLine is called for each output line. Nil logs each line.
	OnLine LineHandler
	// GracePeriod overrides DefaultGracePeriod.
	GracePeriod time.Duration
	// Logger overrides the default component logger.
	Logger *logutil.ComponentLogger
}

// Process is a started child.
type Process struct {
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
	grace  time.Duration
	stdout *lineWriter
	stderr *lineWriter
	log    *logutil.ComponentLogger
}

// Start launches argv[0] with the remaining arguments. The child is
// terminated when ctx is canceled.
func Start(ctx context.Context, argv []string, opts Options) (*Process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("spawn: empty command")
	}

	log := opts.Logger
	if log == nil {
		log = logutil.NewLogger("spawn")
	}
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	onLine := opts.OnLine
	if onLine == nil {
		onLine = func(stream, line string) {
			log.Info("viewer output", "stream", stream, "line", line)
		}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Cancel = func() error { return terminate(cmd.Process) }
	cmd.WaitDelay = grace

	p := &Process{
		cmd:    cmd,
		done:   make(chan struct{}),
		grace:  grace,
		stdout: &lineWriter{stream: "stdout", output: opts.Stdout, handler: onLine},
		stderr: &lineWriter{stream: "stderr", output: opts.Stderr, handler: onLine},
		log:    log,
	}
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start command: %w", err)
	}
	fields := []any{"pid", cmd.Process.Pid, "command", argv[0]}
	if info, err := procutil.Describe(ctx, cmd.Process.Pid); err == nil {
		fields = append(fields, "name", info.Name)
	}
	log.Info("process started", fields...)

	go func() {
		defer close(p.done)
		p.err = cmd.Wait()
		p.stdout.Flush()
		p.stderr.Flush()
		log.Info("process exited", "pid", cmd.Process.Pid, "error", p.err)
	}()

	return p, nil
}

// PID returns the process ID of the child.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Done is closed once the child has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns the result of Wait. It is only meaningful after Done is closed.
func (p *Process) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Running reports whether the child is still alive.
func (p *Process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return procutil.IsProcessRunning(p.PID())
	}
}

// Stop asks the child to exit and kills it if it has not done so within the
// grace period. It returns once the child has been reaped.
func (p *Process) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := terminate(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.log.Debug("terminate failed", "pid", p.PID(), "error", err)
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(p.grace):
	}

	p.log.Warn("process did not exit in time, killing", "pid", p.PID(), "grace", p.grace)
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill process %d: %w", p.PID(), err)
	}
	<-p.done
	return nil
}

func terminate(proc *os.Process) error {
	if runtime.GOOS == "windows" {
		return proc.Kill()
	}
	return proc.Signal(syscall.SIGTERM)
}

// FreePort asks the kernel for an unused TCP port on the loopback interface.
// The port is released before returning, so another process may claim it.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}
