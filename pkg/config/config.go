// Package config resolves the bootstrap configuration from defaults,
// config file, .env file, environment, and flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Probe modes
const (
	ProbeModePing    = "ping"    // in-process lib/pq ping
	ProbeModeCommand = "command" // external probe command (pg_isready)
)

// Database holds PostgreSQL connection parameters
type Database struct {
	Host     string `mapstructure:"host" json:"host" yaml:"host"`
	Port     int    `mapstructure:"port" json:"port" yaml:"port"`
	User     string `mapstructure:"user" json:"user" yaml:"user"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	Name     string `mapstructure:"name" json:"name" yaml:"name"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode" yaml:"sslmode"`
}

// DSN renders lib/pq keyword/value connection parameters
func (d Database) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", d.Host),
		fmt.Sprintf("port=%d", d.Port),
		fmt.Sprintf("user=%s", d.User),
		fmt.Sprintf("dbname=%s", d.Name),
		fmt.Sprintf("sslmode=%s", d.SSLMode),
	}
	if d.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", d.Password))
	}
	return strings.Join(parts, " ")
}

// Wait configures the readiness loop
type Wait struct {
	Interval     time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
	Multiplier   float64       `mapstructure:"multiplier" json:"multiplier" yaml:"multiplier"`
	MaxInterval  time.Duration `mapstructure:"max_interval" json:"max_interval" yaml:"max_interval"`
	MaxWait      time.Duration `mapstructure:"max_wait" json:"max_wait" yaml:"max_wait"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" json:"probe_timeout" yaml:"probe_timeout"`
	ProbeMode    string        `mapstructure:"probe_mode" json:"probe_mode" yaml:"probe_mode"`
	ProbeCommand []string      `mapstructure:"probe_command" json:"probe_command" yaml:"probe_command"`
}

// Migrate configures the migration step
type Migrate struct {
	Command    string        `mapstructure:"command" json:"command" yaml:"command"`
	Args       []string      `mapstructure:"args" json:"args" yaml:"args"`
	ConfigPath string        `mapstructure:"config_path" json:"config_path" yaml:"config_path"`
	Dir        string        `mapstructure:"dir" json:"dir" yaml:"dir"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
}

// Launch configures the application hand-off
type Launch struct {
	Command     string        `mapstructure:"command" json:"command" yaml:"command"`
	Args        []string      `mapstructure:"args" json:"args" yaml:"args"`
	Supervise   bool          `mapstructure:"supervise" json:"supervise" yaml:"supervise"`
	StopTimeout time.Duration `mapstructure:"stop_timeout" json:"stop_timeout" yaml:"stop_timeout"`
}

// Logging configures log output
type Logging struct {
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" json:"json" yaml:"json"`
}

// Config is the resolved bootstrap configuration
type Config struct {
	Database Database `mapstructure:"database" json:"database" yaml:"database"`
	Wait     Wait     `mapstructure:"wait" json:"wait" yaml:"wait"`
	Migrate  Migrate  `mapstructure:"migrate" json:"migrate" yaml:"migrate"`
	Launch   Launch   `mapstructure:"launch" json:"launch" yaml:"launch"`
	Logging  Logging  `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// SetDefaults registers defaults on v. They reproduce the historical
// entrypoint: probe every second forever, alembic to head, then exec
// the application.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("wait.interval", "1s")
	v.SetDefault("wait.multiplier", 1.0)
	v.SetDefault("wait.max_interval", "0")
	v.SetDefault("wait.max_wait", "0")
	v.SetDefault("wait.probe_timeout", "3s")
	v.SetDefault("wait.probe_mode", ProbeModePing)

	v.SetDefault("migrate.command", "alembic")
	v.SetDefault("migrate.args", []string{"upgrade", "head"})

	v.SetDefault("launch.supervise", false)
	v.SetDefault("launch.stop_timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
}

// BindEnv wires CAMBOOT_* environment variables plus the conventional
// PG* names the shell entrypoint relied on.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("CAMBOOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("database.host", "CAMBOOT_DATABASE_HOST", "POSTGRES_HOST", "PGHOST")
	v.BindEnv("database.port", "CAMBOOT_DATABASE_PORT", "POSTGRES_PORT", "PGPORT")
	v.BindEnv("database.user", "CAMBOOT_DATABASE_USER", "POSTGRES_USER", "PGUSER")
	v.BindEnv("database.password", "CAMBOOT_DATABASE_PASSWORD", "POSTGRES_PASSWORD", "PGPASSWORD")
	v.BindEnv("database.name", "CAMBOOT_DATABASE_NAME", "POSTGRES_DB", "PGDATABASE")
}

// ApplyLegacySection maps a database.ini-style [postgresql] section onto
// the database.* keys, so the original config file keeps working.
func ApplyLegacySection(v *viper.Viper) {
	if !v.IsSet("postgresql") {
		return
	}
	aliases := map[string]string{
		"postgresql.host":     "database.host",
		"postgresql.port":     "database.port",
		"postgresql.user":     "database.user",
		"postgresql.password": "database.password",
		"postgresql.dbname":   "database.name",
		"postgresql.sslmode":  "database.sslmode",
	}
	for legacy, key := range aliases {
		if v.IsSet(legacy) {
			v.Set(key, v.Get(legacy))
		}
	}
}

// LoadDotenv loads a .env file into the process environment without
// overriding variables that are already set. Missing files are fine.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// FromViper unmarshals and validates the resolved configuration
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Wait.Interval <= 0 {
		return fmt.Errorf("wait.interval must be positive, got %s", c.Wait.Interval)
	}
	if c.Wait.Multiplier < 1.0 {
		return fmt.Errorf("wait.multiplier must be >= 1.0, got %g", c.Wait.Multiplier)
	}
	switch c.Wait.ProbeMode {
	case ProbeModePing, ProbeModeCommand:
	default:
		return fmt.Errorf("unknown probe mode %q (want %q or %q)",
			c.Wait.ProbeMode, ProbeModePing, ProbeModeCommand)
	}
	if c.Migrate.Command == "" {
		return fmt.Errorf("migrate.command is required")
	}
	return nil
}

// Redacted returns a copy safe for printing: secrets are masked
func (c *Config) Redacted() Config {
	out := *c
	if out.Database.Password != "" {
		out.Database.Password = "********"
	}
	return out
}
