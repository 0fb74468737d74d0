package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configShowOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for inspecting the resolved bootstrap configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Resolves configuration from defaults, config file, env file,
environment and flags, and prints the result. Secrets are redacted.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVarP(&configShowOutput, "output", "o", "table",
		"Output format: table, json, yaml")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	redacted := cfg.Redacted()

	switch configShowOutput {
	case "json":
		output, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(redacted)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(output))
	case "table":
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Setting", "Value")

		table.Append("database.host", redacted.Database.Host)
		table.Append("database.port", fmt.Sprintf("%d", redacted.Database.Port))
		table.Append("database.user", redacted.Database.User)
		table.Append("database.password", redacted.Database.Password)
		table.Append("database.name", redacted.Database.Name)
		table.Append("database.sslmode", redacted.Database.SSLMode)
		table.Append("wait.interval", redacted.Wait.Interval.String())
		table.Append("wait.multiplier", fmt.Sprintf("%g", redacted.Wait.Multiplier))
		table.Append("wait.max_interval", redacted.Wait.MaxInterval.String())
		table.Append("wait.max_wait", redacted.Wait.MaxWait.String())
		table.Append("wait.probe_mode", redacted.Wait.ProbeMode)
		table.Append("wait.probe_command", strings.Join(redacted.Wait.ProbeCommand, " "))
		table.Append("migrate.command", redacted.Migrate.Command)
		table.Append("migrate.args", strings.Join(redacted.Migrate.Args, " "))
		table.Append("migrate.config_path", redacted.Migrate.ConfigPath)
		table.Append("launch.command", redacted.Launch.Command)
		table.Append("launch.args", strings.Join(redacted.Launch.Args, " "))
		table.Append("launch.supervise", fmt.Sprintf("%v", redacted.Launch.Supervise))
		table.Append("logging.level", redacted.Logging.Level)

		table.Render()
	default:
		return fmt.Errorf("unknown output format: %s (want table, json or yaml)", configShowOutput)
	}

	return nil
}
