package probe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandProber checks readiness by running an external probe command,
// pg_isready style: exit 0 means the server accepts connections.
type CommandProber struct {
	command string
	args    []string
}

// NewCommandProber creates a prober that runs command with args on each
// check. The command inherits the process environment, so PGPASSWORD and
// friends work the same way they do in a shell entrypoint.
func NewCommandProber(command string, args ...string) *CommandProber {
	return &CommandProber{command: command, args: args}
}

// Check runs the probe command once
func (p *CommandProber) Check(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Env = os.Environ()

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(output.String())
		if msg != "" {
			return fmt.Errorf("probe %s failed: %s: %w", p.command, msg, err)
		}
		return fmt.Errorf("probe %s failed: %w", p.command, err)
	}
	return nil
}

// String returns the probe command line for logging
func (p *CommandProber) String() string {
	return strings.Join(append([]string{p.command}, p.args...), " ")
}
