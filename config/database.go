package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	// Host is left empty when no database is configured, which enables mock mode.
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"                    envDefault:"5432"    validate:"min=1,max=65535"`
	User     string `env:"USER"                    envDefault:"dispatch"`
	Password string `env:"PASSWORD"                envDefault:"dispatch"`
	Name     string `env:"NAME"                    envDefault:"dispatch"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	// Each open SLA stream pins one connection for LISTEN, so the pool needs
	// headroom beyond request traffic.
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"     envDefault:"40"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"  envDefault:"5m"`
}

// Sanitize applies guardrails to pool settings.
func (c *DBConfig) Sanitize() {
	if c.MaxOpenConns < 4 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = min(5, c.MaxOpenConns)
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains Redis-backed cache and lock configuration.
type CacheConfig struct {
	// GeocodeTTL is how long successful geocoding results are cached.
	GeocodeTTL time.Duration `env:"CACHE_GEOCODE_TTL" envDefault:"168h"`

	// DispatchLockTTL bounds how long a job dispatch lock is held if the holder dies.
	DispatchLockTTL time.Duration `env:"CACHE_DISPATCH_LOCK_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.GeocodeTTL < time.Minute {
		c.GeocodeTTL = time.Minute
	}
	if c.DispatchLockTTL < 30*time.Second {
		c.DispatchLockTTL = 30 * time.Second
	}
}
