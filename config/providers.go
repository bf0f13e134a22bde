package config

import (
	"strings"
	"time"
)

// ProvidersConfig groups the third-party HTTP providers.
type ProvidersConfig struct {
	SendGrid  SendGridConfig  `envPrefix:"SENDGRID_"`
	Instantly InstantlyConfig `envPrefix:"INSTANTLY_"`
	Hunter    HunterConfig    `envPrefix:"HUNTER_"`
	Geocode   GeocodeConfig   `envPrefix:"GEOCODE_"`

	// Timeout bounds every outbound provider request.
	Timeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to provider configuration values.
func (p *ProvidersConfig) Sanitize() {
	if p.Timeout < time.Second {
		p.Timeout = time.Second
	}
	p.SendGrid.sanitize()
	p.Instantly.sanitize()
	p.Hunter.sanitize()
	p.Geocode.sanitize()
}

// SendGridConfig configures the warm transactional email provider.
type SendGridConfig struct {
	APIKey     string `env:"API_KEY"`
	BaseURL    string `env:"BASE_URL"    envDefault:"https://api.sendgrid.com"`
	FromEmail  string `env:"FROM_EMAIL"  envDefault:"jobs@example.com"`
	FromName   string `env:"FROM_NAME"   envDefault:"Dispatch"`
	TemplateID string `env:"TEMPLATE_ID"`
}

func (c *SendGridConfig) sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.TemplateID = strings.TrimSpace(c.TemplateID)
}

// InstantlyConfig configures the cold outreach campaign provider.
type InstantlyConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.instantly.ai"`

	// Campaigns maps a trade to its campaign ID, e.g. "hvac:abc,plumbing:def".
	// These entries override CAMPAIGNS_FILE.
	Campaigns map[string]string `env:"CAMPAIGNS" envSeparator:"," envKeyValSeparator:":"`

	// FallbackCampaign is used by enrichment when a trade has no campaign.
	// When empty, the hvac campaign is used.
	FallbackCampaign string `env:"FALLBACK_CAMPAIGN"`
}

func (c *InstantlyConfig) sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.FallbackCampaign = strings.TrimSpace(c.FallbackCampaign)
	cleaned := make(map[string]string, len(c.Campaigns))
	for trade, id := range c.Campaigns {
		trade = strings.ToLower(strings.TrimSpace(trade))
		id = strings.TrimSpace(id)
		if trade == "" || id == "" {
			continue
		}
		cleaned[trade] = id
	}
	c.Campaigns = cleaned
}

// HunterConfig configures the email finder, domain search and verification provider.
type HunterConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.hunter.io/v2"`

	// RequestsPerSecond caps outbound calls to stay under the provider's rate limit.
	RequestsPerSecond int `env:"REQUESTS_PER_SECOND" envDefault:"10"`
}

func (c *HunterConfig) sanitize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.RequestsPerSecond < 1 {
		c.RequestsPerSecond = 1
	}
}

// GeocodeConfig configures the geocoding fallback chain.
type GeocodeConfig struct {
	// Providers lists the chain order.
	Providers []string `env:"PROVIDERS" envDefault:"nominatim,google,mapbox"`

	NominatimURL   string `env:"NOMINATIM_URL"    envDefault:"https://nominatim.openstreetmap.org"`
	UserAgent      string `env:"USER_AGENT"       envDefault:"dispatch-api/1.0"`
	GoogleURL      string `env:"GOOGLE_URL"       envDefault:"https://maps.googleapis.com"`
	GoogleAPIKey   string `env:"GOOGLE_API_KEY"`
	MapboxURL      string `env:"MAPBOX_URL"       envDefault:"https://api.mapbox.com"`
	MapboxToken    string `env:"MAPBOX_TOKEN"`
	CountryCodes   string `env:"COUNTRY_CODES"    envDefault:"us"`
	RequestsPerSec int    `env:"REQUESTS_PER_SEC" envDefault:"1"`
}

func (c *GeocodeConfig) sanitize() {
	providers := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			providers = append(providers, p)
		}
	}
	c.Providers = providers
	c.GoogleAPIKey = strings.TrimSpace(c.GoogleAPIKey)
	c.MapboxToken = strings.TrimSpace(c.MapboxToken)
	if c.RequestsPerSec < 1 {
		c.RequestsPerSec = 1
	}
}
