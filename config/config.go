package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DefaultPort            = "3000"
	DefaultDatabasePath    = "./todoApplication.db"
	DefaultStoreTimeout    = 5 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

type Config struct {
	Port            string   `toml:"port"`
	DatabasePath    string   `toml:"database_path"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	StoreTimeout    Duration `toml:"store_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`

	// UpdateMissingNotFound makes an update of an unknown id answer 404
	// instead of confirming a no-op.
	UpdateMissingNotFound bool `toml:"update_missing_not_found"`
}

// Duration decodes TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func setDefaults(cfg *Config) {
	cfg.Port = DefaultPort
	cfg.DatabasePath = DefaultDatabasePath
	cfg.AllowedOrigins = []string{"*"}
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.StoreTimeout = Duration{DefaultStoreTimeout}
	cfg.ShutdownTimeout = Duration{DefaultShutdownTimeout}
	cfg.UpdateMissingNotFound = true
}

// Load builds the configuration from, in increasing priority: defaults, a
// TOML file, a .env file, the environment and the command line.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// Flags are parsed first only to learn where the config file lives;
	// their values are applied last.
	flags := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	configFile := *flags.configFile
	if configFile == "" {
		configFile = os.Getenv("TODO_CONFIG")
	}
	if configFile != "" {
		if _, err := toml.DecodeFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	flags.apply(fs, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	var err error
	if cfg.StoreTimeout.Duration, err = getDurationEnv("STORE_TIMEOUT", cfg.StoreTimeout.Duration); err != nil {
		return err
	}
	if cfg.ShutdownTimeout.Duration, err = getDurationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout.Duration); err != nil {
		return err
	}
	if cfg.UpdateMissingNotFound, err = getBoolEnv("UPDATE_MISSING_NOT_FOUND", cfg.UpdateMissingNotFound); err != nil {
		return err
	}
	return nil
}

type flagValues struct {
	configFile   *string
	port         *string
	databasePath *string
	logLevel     *string
}

func registerFlags(fs *flag.FlagSet) flagValues {
	return flagValues{
		configFile:   fs.String("config", "", "path to a TOML config file"),
		port:         fs.String("port", "", "port to listen on"),
		databasePath: fs.String("db", "", "path to the SQLite database file"),
		logLevel:     fs.String("log-level", "", "debug, info, warn or error"),
	}
}

// apply copies flags that were set on the command line into cfg.
func (f flagValues) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Port = *f.port
		case "db":
			cfg.DatabasePath = *f.databasePath
		case "log-level":
			cfg.LogLevel = *f.logLevel
		}
	})
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required (PORT)")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required (DATABASE_PATH)")
	}
	if c.StoreTimeout.Duration <= 0 {
		return fmt.Errorf("store timeout must be positive (STORE_TIMEOUT)")
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return fmt.Errorf("shutdown timeout must be positive (SHUTDOWN_TIMEOUT)")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q (LOG_LEVEL)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q (LOG_FORMAT)", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %q", key, value)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, value)
	}
	return parsed, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
