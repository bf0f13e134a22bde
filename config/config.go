package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode and background worker configuration
//   - providers.go: Email, enrichment and geocoding provider configuration
//   - observability.go: Metrics and breach notification configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// MockMode swaps every outbound provider for deterministic fakes.
	// NEXT_PUBLIC_MOCK_MODE is honored as a fallback for existing deployments.
	MockMode bool `env:"MOCK_MODE" envDefault:"false"`

	// SeedDemoData loads demo jobs, technicians and queue entries at startup.
	// Mock mode always seeds its in-memory store.
	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"false"`

	// SLAPresetsFile optionally replaces the embedded SLA preset table.
	SLAPresetsFile string `env:"SLA_PRESETS_FILE"`

	// CampaignsFile optionally supplies the trade to cold campaign map as YAML.
	CampaignsFile string `env:"CAMPAIGNS_FILE"`

	// LeadBoardsFile optionally replaces the embedded license-board column mappings.
	LeadBoardsFile string `env:"LEAD_BOARDS_FILE"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http"`

	// SLA monitor configuration
	SLAMonitor SLAMonitorConfig

	// Enrichment runner configuration
	EnrichmentRunner EnrichmentRunnerConfig

	// Dispatch configuration
	Dispatch DispatchConfig

	// Outbound provider configuration
	Providers ProvidersConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize clamps and normalises values after env parsing, then derives
// IsDev and MockMode.
func (c *AppConfig) Sanitize() {
	for _, section := range []interface{ Sanitize() }{
		&c.HTTP,
		&c.Postgres,
		&c.Cache,
		&c.SLAMonitor,
		&c.EnrichmentRunner,
		&c.Dispatch,
		&c.Providers,
		&c.Observability,
	} {
		section.Sanitize()
	}

	for _, path := range []*string{&c.SLAPresetsFile, &c.CampaignsFile, &c.LeadBoardsFile} {
		*path = strings.TrimSpace(*path)
	}

	// NODE_ENV is honoured for deployments that share env files with the web app.
	if !c.IsDev {
		switch strings.ToLower(os.Getenv("NODE_ENV")) {
		case "development", "dev":
			c.IsDev = true
		}
	}

	// Without a database there is nothing real to talk to, so providers are faked too.
	c.MockMode = c.MockMode ||
		strings.EqualFold(strings.TrimSpace(os.Getenv("NEXT_PUBLIC_MOCK_MODE")), "true") ||
		strings.TrimSpace(c.Postgres.Host) == ""
}

// GetEnabledServices parses SERVICES.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// Enabled reports whether SERVICES names mode. An unparsable SERVICES
// enables nothing.
func (c *AppConfig) Enabled(mode ServiceMode) bool {
	services, err := c.GetEnabledServices()
	return err == nil && services[mode]
}
