package migrate

import (
	"context"
	"errors"
	"testing"
)

// TestCommandMigrator_Success verifies a clean migration run
func TestCommandMigrator_Success(t *testing.T) {
	m := &CommandMigrator{Command: "true"}
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

// TestCommandMigrator_ExitStatus verifies the tool's exit code is
// carried in the typed error
func TestCommandMigrator_ExitStatus(t *testing.T) {
	m := &CommandMigrator{Command: "sh", Args: []string{"-c", "exit 3"}}
	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to fail")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Expected exit code 3, got %d", exitErr.Code)
	}
}

// TestCommandMigrator_MissingBinary verifies a start failure is not an
// ExitError (there is no status to propagate)
func TestCommandMigrator_MissingBinary(t *testing.T) {
	m := &CommandMigrator{Command: "camboot-no-such-tool"}
	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to fail for a missing binary")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("Start failure must not be an ExitError, got %v", err)
	}
}

// TestCommandMigrator_EmptyCommand rejects a missing configuration
func TestCommandMigrator_EmptyCommand(t *testing.T) {
	m := &CommandMigrator{}
	if err := m.Run(context.Background()); err == nil {
		t.Fatal("Expected Run to fail for an empty command")
	}
}

// TestCommandMigrator_String includes the config path in alembic style
func TestCommandMigrator_String(t *testing.T) {
	m := &CommandMigrator{
		Command:    "alembic",
		Args:       []string{"upgrade", "head"},
		ConfigPath: "alembic.ini",
	}
	want := "alembic -c alembic.ini upgrade head"
	if got := m.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
