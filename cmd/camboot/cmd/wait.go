package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/camvision/camboot/pkg/bootstrap"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the database accepts connections",
	Long: `Runs only the readiness loop. Useful as a gate in init containers
or compose healthcheck chains. Exits 0 once the database is reachable;
with --max-wait set, exits non-zero when the budget runs out.`,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().Duration("max-wait", 0, "give up after this long (0 waits forever)")
	waitCmd.Flags().Duration("interval", 0, "override the probe interval")
}

func runWait(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if d, _ := cmd.Flags().GetDuration("max-wait"); d > 0 {
		cfg.Wait.MaxWait = d
	}
	if d, _ := cmd.Flags().GetDuration("interval"); d > 0 {
		cfg.Wait.Interval = d
	}

	seq := &bootstrap.Sequencer{
		Prober: newProber(cfg),
		Retry:  newRetryConfig(cfg),
		Log:    log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return seq.Wait(ctx)
}
