package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/camvision/camboot/pkg/sysinfo"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [-- command args...]",
	Short: "Wait for the database, migrate, then launch the application",
	Long: `Runs the full startup sequence: block until PostgreSQL accepts
connections, apply pending schema migrations, then hand the process over
to the application. On success this command does not return.

The application command comes from launch.command in the configuration,
or from the arguments after "--":

  camboot run -- python run.py`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	seq, err := newSequencer(cfg, log, args)
	if err != nil {
		return err
	}

	host := sysinfo.Collect()
	log.Info("Starting camboot", map[string]interface{}{
		"version":  Version,
		"database": cfg.Database.Host,
		"cpu":      host.CPUModel,
		"threads":  host.CPUThreads,
		"memory":   sysinfo.FormatBytes(host.MemTotal),
	})

	// Signals abort the sequence until the application takes over
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return seq.Run(ctx)
}
