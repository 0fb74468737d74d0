package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// ExecLauncher replaces the current process image with the application
// via execve. The application inherits our PID, so SIGTERM from the
// container runtime reaches it directly with no supervising parent in
// between.
type ExecLauncher struct {
	Command string
	Args    []string
}

// Launch resolves the binary and execs it. On success this call does
// not return.
func (l *ExecLauncher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := exec.LookPath(l.Command)
	if err != nil {
		return fmt.Errorf("application binary not found: %w", err)
	}

	argv := append([]string{l.Command}, l.Args...)
	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to exec %s: %w", path, err)
	}
	return nil // unreachable
}
