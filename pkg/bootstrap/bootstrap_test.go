package bootstrap

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/camvision/camboot/pkg/launch"
	"github.com/camvision/camboot/pkg/logging"
	"github.com/camvision/camboot/pkg/migrate"
	"github.com/camvision/camboot/pkg/retry"
)

// fakeProber fails a fixed number of times before reporting ready
type fakeProber struct {
	failures int
	calls    int
}

func (p *fakeProber) Check(ctx context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

// fakeMigrator records invocations and returns a canned error
type fakeMigrator struct {
	calls int
	err   error
}

func (m *fakeMigrator) Run(ctx context.Context) error {
	m.calls++
	return m.err
}

// fakeLauncher records invocations
type fakeLauncher struct {
	calls int
	err   error
}

func (l *fakeLauncher) Launch(ctx context.Context) error {
	l.calls++
	return l.err
}

func testLogger() *logging.Logger {
	log := logging.NewLogger(logging.ERROR, false)
	log.SetOutput(io.Discard)
	return log
}

func testSequencer(p *fakeProber, m *fakeMigrator, l *fakeLauncher) *Sequencer {
	seq := New(p, m, l, testLogger())
	seq.Retry = retry.Config{
		InitialBackoff: 2 * time.Millisecond,
		Multiplier:     1.0,
	}
	return seq
}

// TestRun_ReadyAfterFailures verifies the exact probe count before the
// sequence proceeds: N failing probes, one success, then migrate and
// launch exactly once.
func TestRun_ReadyAfterFailures(t *testing.T) {
	prober := &fakeProber{failures: 2}
	migrator := &fakeMigrator{}
	launcher := &fakeLauncher{}
	seq := testSequencer(prober, migrator, launcher)

	start := time.Now()
	if err := seq.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if prober.calls != 3 {
		t.Errorf("Expected 3 probes (2 failing, 1 succeeding), got %d", prober.calls)
	}
	if migrator.calls != 1 {
		t.Errorf("Expected exactly 1 migration run, got %d", migrator.calls)
	}
	if launcher.calls != 1 {
		t.Errorf("Expected exactly 1 launch, got %d", launcher.calls)
	}
	if elapsed := time.Since(start); elapsed < 4*time.Millisecond {
		t.Errorf("Expected at least 2 probe pauses, elapsed %v", elapsed)
	}
}

// TestRun_NeverReady verifies migration is never attempted while the
// database stays unavailable within a bounded test window
func TestRun_NeverReady(t *testing.T) {
	prober := &fakeProber{failures: 1 << 30}
	migrator := &fakeMigrator{}
	launcher := &fakeLauncher{}
	seq := testSequencer(prober, migrator, launcher)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := seq.Run(ctx)
	if err == nil {
		t.Fatal("Expected Run to fail when the database never becomes ready")
	}
	if migrator.calls != 0 {
		t.Errorf("Migration must not run before the database is ready, got %d runs", migrator.calls)
	}
	if launcher.calls != 0 {
		t.Errorf("Application must not launch, got %d launches", launcher.calls)
	}
}

// TestRun_BoundedWaitTimesOut verifies the typed timeout of the bounded
// wait redesign
func TestRun_BoundedWaitTimesOut(t *testing.T) {
	prober := &fakeProber{failures: 1 << 30}
	seq := testSequencer(prober, &fakeMigrator{}, &fakeLauncher{})
	seq.Retry.MaxElapsed = 10 * time.Millisecond

	err := seq.Wait(context.Background())
	if !errors.Is(err, retry.ErrMaxElapsed) {
		t.Fatalf("Expected ErrMaxElapsed, got %v", err)
	}
}

// TestRun_MigrationFailure verifies a failing migration aborts the
// sequence and its exit status is propagated
func TestRun_MigrationFailure(t *testing.T) {
	prober := &fakeProber{}
	migrator := &fakeMigrator{err: &migrate.ExitError{Command: "alembic upgrade head", Code: 1}}
	launcher := &fakeLauncher{}
	seq := testSequencer(prober, migrator, launcher)

	err := seq.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to fail on migration error")
	}
	if launcher.calls != 0 {
		t.Errorf("Application must not launch after a failed migration, got %d launches", launcher.calls)
	}
	if code := ExitCode(err); code != 1 {
		t.Errorf("Expected exit code 1 from the migration tool, got %d", code)
	}
}

// TestExitCode maps sequence errors onto process exit statuses
func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"generic failure", errors.New("boom"), 1},
		{"migration status", &migrate.ExitError{Code: 3}, 3},
		{"stringified migration error loses the code", errors.New((&migrate.ExitError{Code: 2}).Error()), 1},
		{"supervised child status", &launch.ChildExitError{Code: 7}, 7},
		{"child killed by signal", &launch.ChildExitError{Code: 143, Signal: "terminated"}, 143},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

// TestMigrate_RunsExactlyOnce verifies the migrate step never retries
func TestMigrate_RunsExactlyOnce(t *testing.T) {
	migrator := &fakeMigrator{err: errors.New("constraint violation")}
	seq := testSequencer(&fakeProber{}, migrator, &fakeLauncher{})

	if err := seq.Migrate(context.Background()); err == nil {
		t.Fatal("Expected Migrate to fail")
	}
	if migrator.calls != 1 {
		t.Errorf("Expected exactly 1 migration attempt, got %d", migrator.calls)
	}
}
