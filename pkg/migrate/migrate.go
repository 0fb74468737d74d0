// Package migrate runs the external schema-migration tool.
//
// Migration state lives entirely in the tool and the database; the
// sequencer never inspects revisions. One invocation brings the schema
// to head, and any failure is fatal to the whole startup.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Migrator applies all pending schema migrations
type Migrator interface {
	Run(ctx context.Context) error
}

// ExitError reports a migration tool that ran but exited non-zero.
// The code is propagated verbatim as the sequencer's own exit status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("migration command %q exited with status %d", e.Command, e.Code)
}

// CommandMigrator invokes an external migration tool (alembic-style)
// exactly once. Stdout and stderr are inherited so the tool's own
// output lands in the container log.
type CommandMigrator struct {
	Command    string
	Args       []string
	ConfigPath string        // passed as "-c <path>" when set
	Dir        string        // working directory; empty means inherit
	Timeout    time.Duration // 0 means no bound
}

// Run executes the migration command once
func (m *CommandMigrator) Run(ctx context.Context) error {
	if m.Command == "" {
		return errors.New("migration command is empty")
	}

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(m.Args)+2)
	if m.ConfigPath != "" {
		args = append(args, "-c", m.ConfigPath)
	}
	args = append(args, m.Args...)

	cmd := exec.CommandContext(ctx, m.Command, args...)
	cmd.Dir = m.Dir
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: m.String(), Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run migration command %q: %w", m.String(), err)
}

// String returns the full command line for logging
func (m *CommandMigrator) String() string {
	parts := []string{m.Command}
	if m.ConfigPath != "" {
		parts = append(parts, "-c", m.ConfigPath)
	}
	parts = append(parts, m.Args...)
	return strings.Join(parts, " ")
}
