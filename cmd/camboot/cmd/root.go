package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/camvision/camboot/pkg/config"
	"github.com/camvision/camboot/pkg/logging"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
	logJSON  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "camboot",
	Short: "Container entrypoint for the camera streaming platform",
	Long: `camboot gates application startup on PostgreSQL availability:
it waits for the database to accept connections, applies pending schema
migrations, and then replaces itself with the application process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default camboot.yaml or database.ini in ., /etc/camboot)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before configuration (missing file is ignored)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log in JSON format")

	rootCmd.PersistentFlags().String("db-host", "", "database host")
	rootCmd.PersistentFlags().Int("db-port", 0, "database port")
	rootCmd.PersistentFlags().String("db-user", "", "database user")
	rootCmd.PersistentFlags().String("db-name", "", "database name")

	viper.BindPFlag("database.host", rootCmd.PersistentFlags().Lookup("db-host"))
	viper.BindPFlag("database.port", rootCmd.PersistentFlags().Lookup("db-port"))
	viper.BindPFlag("database.user", rootCmd.PersistentFlags().Lookup("db-user"))
	viper.BindPFlag("database.name", rootCmd.PersistentFlags().Lookup("db-name"))
	viper.BindPFlag("logging.json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// initConfig reads the env file, config file and environment variables
func initConfig() {
	if err := config.LoadDotenv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/camboot")
		viper.SetConfigName("camboot")
		viper.SetConfigType("yaml")
		// Config file is optional; only a parse failure is fatal
		if err := viper.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				os.Exit(1)
			}
		}
	}

	config.ApplyLegacySection(viper.GetViper())

	if logLevel != "" {
		viper.Set("logging.level", logLevel)
	}
}

// loadConfig resolves and validates the configuration for a subcommand
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	log := logging.NewLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.JSON)
	return cfg, log, nil
}
