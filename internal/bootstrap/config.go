package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tradedispatch/dispatch-api/config"
)

// InitLogger installs the process logger. LOG_FORMAT=text switches from JSON
// to logfmt-style output for local runs.
func InitLogger() *slog.Logger {
	logger := newLogger(os.Stdout, os.Getenv("LOG_FORMAT"), logLevel())
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("service", "dispatch-api")
}

// logLevel reads LOG_LEVEL, defaulting to info.
func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig reads dotenv files, parses the environment, sanitizes and
// validates. Real environment variables always win over file values.
func LoadConfig() (config.AppConfig, error) {
	var cfg config.AppConfig
	if err := loadEnvFiles(os.Getenv("ENV_FILE")); err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, cfg.Validate()
}

// loadEnvFiles loads explicit, which must exist, or else whichever of
// .env.local and .env exist, earlier files taking precedence.
func loadEnvFiles(explicit string) error {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("load ENV_FILE %s: %w", explicit, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		err := godotenv.Load(name)
		var pathErr *os.PathError
		if err != nil && !errors.As(err, &pathErr) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ValidateServiceConfig requires SERVICES to parse and name at least one mode.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	services, err := cfg.GetEnabledServices()
	switch {
	case err != nil:
		return fmt.Errorf("invalid service configuration: %w", err)
	case len(services) == 0:
		return errors.New("no services enabled")
	}
	return nil
}

// GetEnabledServices lists enabled modes in startup order. Invalid SERVICES
// yields an empty list; ValidateServiceConfig reports why.
func GetEnabledServices(cfg *config.AppConfig) []string {
	names := []string{}
	if cfg == nil {
		return names
	}
	for _, mode := range config.ValidServiceModes() {
		if cfg.Enabled(mode) {
			names = append(names, string(mode))
		}
	}
	return names
}
