package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/eventbus"
	"orderflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	HTTPPort            string `mapstructure:"HTTP_PORT"`
	Store               string `mapstructure:"STORE"`
	DBHost              string `mapstructure:"DB_HOST"`
	DBPort              string `mapstructure:"DB_PORT"`
	DBUser              string `mapstructure:"DB_USER"`
	DBPassword          string `mapstructure:"DB_PASSWORD"`
	DBName              string `mapstructure:"DB_NAME"`
	DBSslMode           string `mapstructure:"DB_SSLMODE"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	LogFormat           string `mapstructure:"LOG_FORMAT"`
	OverdueScanSchedule string `mapstructure:"OVERDUE_SCAN_SCHEDULE"`
	MaxDispatchDepth    int    `mapstructure:"MAX_DISPATCH_DEPTH"`
}

var defaults = map[string]any{
	"HTTP_PORT":             "8080",
	"STORE":                 StoreMemory,
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "",
	"DB_NAME":               "orderflow",
	"DB_SSLMODE":            "disable",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            LogFormatText,
	"OVERDUE_SCAN_SCHEDULE": jobs.DefaultOverdueSchedule,
	"MAX_DISPATCH_DEPTH":    eventbus.DefaultMaxDepth,
}

// LoadConfig reads the optional .env files, then the environment, on top of
// the defaults. Flags bound to v beforehand take precedence over both.
func LoadConfig(v *viper.Viper, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	switch c.Store {
	case StoreMemory, StorePostgres:
	default:
		problems = append(problems, fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store))
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		problems = append(problems, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat))
	}
	if _, err := c.level(); err != nil {
		problems = append(problems, err)
	}
	if c.MaxDispatchDepth < 1 {
		problems = append(problems, fmt.Errorf("MAX_DISPATCH_DEPTH must be positive, got %d", c.MaxDispatchDepth))
	}
	return errors.Join(problems...)
}

func (c Config) Connection() postgres.ConnectionConfig {
	return postgres.ConnectionConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q is not a level", c.LogLevel)
	}
	return level, nil
}
