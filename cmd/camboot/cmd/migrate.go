package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/camvision/camboot/pkg/bootstrap"
)

var migrateNoWait bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Waits for the database (unless --no-wait) and then runs the
configured migration tool once, upgrading the schema to head. A failing
migration aborts with the tool's own exit status.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateNoWait, "no-wait", false, "skip the readiness loop and migrate immediately")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	seq := &bootstrap.Sequencer{
		Prober:   newProber(cfg),
		Migrator: newMigrator(cfg),
		Retry:    newRetryConfig(cfg),
		Log:      log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !migrateNoWait {
		if err := seq.Wait(ctx); err != nil {
			return err
		}
	}
	return seq.Migrate(ctx)
}
