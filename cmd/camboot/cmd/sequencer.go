package cmd

import (
	"fmt"
	"strconv"

	"github.com/camvision/camboot/pkg/bootstrap"
	"github.com/camvision/camboot/pkg/config"
	"github.com/camvision/camboot/pkg/launch"
	"github.com/camvision/camboot/pkg/logging"
	"github.com/camvision/camboot/pkg/migrate"
	"github.com/camvision/camboot/pkg/probe"
	"github.com/camvision/camboot/pkg/retry"
)

// newProber builds the readiness probe from configuration
func newProber(cfg *config.Config) probe.Prober {
	if cfg.Wait.ProbeMode == config.ProbeModeCommand {
		command := cfg.Wait.ProbeCommand
		if len(command) == 0 {
			// Same probe the shell entrypoint ran
			command = []string{
				"pg_isready",
				"-h", cfg.Database.Host,
				"-p", strconv.Itoa(cfg.Database.Port),
				"-U", cfg.Database.User,
			}
		}
		return probe.NewCommandProber(command[0], command[1:]...)
	}
	return probe.NewPingProber(cfg.Database.DSN(), cfg.Wait.ProbeTimeout)
}

// newMigrator builds the migration step from configuration
func newMigrator(cfg *config.Config) migrate.Migrator {
	return &migrate.CommandMigrator{
		Command:    cfg.Migrate.Command,
		Args:       cfg.Migrate.Args,
		ConfigPath: cfg.Migrate.ConfigPath,
		Dir:        cfg.Migrate.Dir,
		Timeout:    cfg.Migrate.Timeout,
	}
}

// newLauncher builds the application launcher. argv, when non-empty,
// overrides the configured launch command (everything after "--").
func newLauncher(cfg *config.Config, argv []string) (launch.Launcher, error) {
	command := cfg.Launch.Command
	args := cfg.Launch.Args
	if len(argv) > 0 {
		command = argv[0]
		args = argv[1:]
	}
	if command == "" {
		return nil, fmt.Errorf("no application command configured (set launch.command or pass one after --)")
	}

	if cfg.Launch.Supervise {
		return &launch.SupervisedLauncher{
			Command:     command,
			Args:        args,
			StopTimeout: cfg.Launch.StopTimeout,
		}, nil
	}
	return &launch.ExecLauncher{Command: command, Args: args}, nil
}

// newRetryConfig maps the wait settings onto the retry loop
func newRetryConfig(cfg *config.Config) retry.Config {
	return retry.Config{
		InitialBackoff: cfg.Wait.Interval,
		Multiplier:     cfg.Wait.Multiplier,
		MaxBackoff:     cfg.Wait.MaxInterval,
		MaxElapsed:     cfg.Wait.MaxWait,
	}
}

// newSequencer assembles the full startup sequencer
func newSequencer(cfg *config.Config, log *logging.Logger, argv []string) (*bootstrap.Sequencer, error) {
	launcher, err := newLauncher(cfg, argv)
	if err != nil {
		return nil, err
	}
	seq := bootstrap.New(newProber(cfg), newMigrator(cfg), launcher, log)
	seq.Retry = newRetryConfig(cfg)
	return seq, nil
}
