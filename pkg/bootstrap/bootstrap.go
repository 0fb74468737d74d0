// Package bootstrap implements the startup sequence: wait for the
// database, apply migrations, launch the application. Strictly ordered,
// single-threaded, runs once per container start.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camvision/camboot/pkg/launch"
	"github.com/camvision/camboot/pkg/logging"
	"github.com/camvision/camboot/pkg/migrate"
	"github.com/camvision/camboot/pkg/probe"
	"github.com/camvision/camboot/pkg/retry"
)

// Sequencer gates application startup on database availability.
// Collaborators are interfaces so the sequence is testable without a
// real database or external binaries.
type Sequencer struct {
	Prober   probe.Prober
	Migrator migrate.Migrator
	Launcher launch.Launcher
	Retry    retry.Config
	Log      *logging.Logger
}

// New creates a sequencer with the historical defaults: probe every
// second, forever.
func New(p probe.Prober, m migrate.Migrator, l launch.Launcher, log *logging.Logger) *Sequencer {
	return &Sequencer{
		Prober:   p,
		Migrator: m,
		Launcher: l,
		Retry:    retry.DefaultConfig(),
		Log:      log,
	}
}

// Wait blocks until the database accepts connections, retrying per the
// configured backoff. With an unbounded config it only returns on
// success or context cancellation.
func (s *Sequencer) Wait(ctx context.Context) error {
	start := time.Now()

	err := retry.Do(ctx, s.Retry, func() error {
		return s.Prober.Check(ctx)
	}, func(attempt int, next time.Duration, err error) {
		s.Log.Info("Database is unavailable - sleeping", map[string]interface{}{
			"attempt": attempt,
			"sleep":   next.String(),
			"error":   err.Error(),
		})
	})
	if err != nil {
		if errors.Is(err, retry.ErrMaxElapsed) {
			return fmt.Errorf("database did not become ready: %w", err)
		}
		return err
	}

	s.Log.Info("Database is up", map[string]interface{}{
		"waited": time.Since(start).Round(time.Millisecond).String(),
	})
	return nil
}

// Migrate applies pending schema migrations exactly once. Failure is
// fatal to the sequence; there is no retry or rollback at this layer.
func (s *Sequencer) Migrate(ctx context.Context) error {
	s.Log.Info("Applying database migrations")
	if err := s.Migrator.Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	s.Log.Info("Migrations applied")
	return nil
}

// Run executes the full sequence. With an exec-based launcher a
// successful Run never returns.
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.Wait(ctx); err != nil {
		return err
	}
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	s.Log.Info("Starting application")
	return s.Launcher.Launch(ctx)
}

// ExitCode maps a sequence error to the process exit status. Migration
// and supervised-application failures keep their original exit codes;
// everything else is a generic failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var migErr *migrate.ExitError
	if errors.As(err, &migErr) {
		return migErr.Code
	}
	var childErr *launch.ChildExitError
	if errors.As(err, &childErr) {
		return childErr.Code
	}
	return 1
}
