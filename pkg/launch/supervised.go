package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// ChildExitError reports a supervised application that exited non-zero.
// Code follows shell convention: the child's exit status, or 128+signal
// when the child was killed by a signal.
type ChildExitError struct {
	Command string
	Code    int
	Signal  string
}

func (e *ChildExitError) Error() string {
	if e.Signal != "" {
		return fmt.Sprintf("application %q killed by %s", e.Command, e.Signal)
	}
	return fmt.Sprintf("application %q exited with status %d", e.Command, e.Code)
}

// SupervisedLauncher spawns the application as a child, forwards
// termination signals to it, and reports its exit status. Used where
// process replacement is unavailable or unwanted; exit status and
// signal routing stay transparent either way.
type SupervisedLauncher struct {
	Command string
	Args    []string

	// StopTimeout bounds how long a child gets after a forwarded
	// SIGTERM before it is killed. 0 means wait forever.
	StopTimeout time.Duration
}

// Launch runs the application and blocks until it exits
func (l *SupervisedLauncher) Launch(ctx context.Context) error {
	cmd := exec.Command(l.Command, l.Args...)
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Own process group so a forwarded signal reaches the whole tree
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	waitChan := make(chan error, 1)
	go func() {
		waitChan <- cmd.Wait()
	}()

	var killTimer <-chan time.Time
	done := ctx.Done()
	for {
		select {
		case sig := <-sigChan:
			// Negative pid targets the process group
			_ = syscall.Kill(-cmd.Process.Pid, sig.(syscall.Signal))
			if l.StopTimeout > 0 && killTimer == nil {
				killTimer = time.After(l.StopTimeout)
			}
		case <-killTimer:
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			killTimer = nil
		case <-done:
			done = nil // fires once
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
			if l.StopTimeout > 0 && killTimer == nil {
				killTimer = time.After(l.StopTimeout)
			}
		case err := <-waitChan:
			return l.exitError(err)
		}
	}
}

func (l *SupervisedLauncher) exitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("application wait failed: %w", err)
	}

	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if ok && status.Signaled() {
		sig := status.Signal()
		return &ChildExitError{
			Command: l.Command,
			Code:    128 + int(sig),
			Signal:  sig.String(),
		}
	}
	return &ChildExitError{Command: l.Command, Code: exitErr.ExitCode()}
}
