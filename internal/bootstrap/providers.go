package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/adapters/fakes"
	"github.com/tradedispatch/dispatch-api/internal/adapters/geocode"
	"github.com/tradedispatch/dispatch-api/internal/adapters/hunter"
	"github.com/tradedispatch/dispatch-api/internal/adapters/instantly"
	"github.com/tradedispatch/dispatch-api/internal/adapters/sendgrid"
	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/leads"
	"github.com/tradedispatch/dispatch-api/internal/domain/outreach"
	"github.com/tradedispatch/dispatch-api/internal/domain/sla"
)

// Providers groups outbound adapters and the lookup tables services are configured with.
type Providers struct {
	Warm     core.WarmMailer
	Plain    core.PlainMailer
	Cold     core.ColdOutreach
	Intel    core.EmailIntel
	Geocoder core.Geocoder

	Campaigns *outreach.Catalog
	Presets   *sla.Presets
	Boards    *leads.Boards
}

// BuildProviders wires real adapters, or deterministic fakes in mock mode.
// A provider without credentials stays nil and the services that need it are
// not built. Geocode results are cached when cache is non-nil.
func BuildProviders(cfg *config.AppConfig, cache core.CacheRepository, logger *slog.Logger) (*Providers, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tables, err := loadTables(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MockMode {
		logger.Warn("mock mode enabled; outbound providers are faked")
		mailer := &fakes.Mailer{}
		tables.Warm = mailer
		tables.Plain = mailer
		tables.Cold = &fakes.Outreach{}
		tables.Intel = fakes.NewEmailIntel()
		tables.Geocoder = cachedGeocoder(fakes.NewGeocoder(), cfg.Cache, cache, logger)
		return tables, nil
	}

	p := cfg.Providers
	if mailer, err := sendgrid.NewClient(sendgrid.Config{
		APIKey:      p.SendGrid.APIKey,
		BaseURL:     p.SendGrid.BaseURL,
		FromEmail:   p.SendGrid.FromEmail,
		FromName:    p.SendGrid.FromName,
		TemplateID:  p.SendGrid.TemplateID,
		Timeout:     p.Timeout,
		SandboxMode: cfg.IsDev,
	}); err != nil {
		logger.Warn("email provider disabled", "provider", "sendgrid", "error", err)
	} else {
		tables.Warm = mailer
		tables.Plain = mailer
	}
	if cold, err := instantly.NewClient(instantly.Config{
		APIKey:            p.Instantly.APIKey,
		BaseURL:           p.Instantly.BaseURL,
		Timeout:           p.Timeout,
		SkipIfInWorkspace: true,
	}); err != nil {
		logger.Warn("cold outreach provider disabled", "provider", "instantly", "error", err)
	} else {
		tables.Cold = cold
	}
	if intel, err := hunter.NewClient(hunter.Config{
		APIKey:            p.Hunter.APIKey,
		BaseURL:           p.Hunter.BaseURL,
		Timeout:           p.Timeout,
		RequestsPerSecond: float64(p.Hunter.RequestsPerSecond),
	}); err != nil {
		logger.Warn("email intelligence provider disabled", "provider", "hunter", "error", err)
	} else {
		tables.Intel = intel
	}
	if chain := buildGeocodeChain(p, logger); chain != nil {
		tables.Geocoder = cachedGeocoder(chain, cfg.Cache, cache, logger)
	}
	return tables, nil
}

func loadTables(cfg *config.AppConfig) (*Providers, error) {
	campaigns, err := outreach.LoadCatalog(
		cfg.CampaignsFile,
		cfg.Providers.Instantly.Campaigns,
		cfg.Providers.Instantly.FallbackCampaign,
	)
	if err != nil {
		return nil, err
	}
	presets, err := sla.LoadPresets(cfg.SLAPresetsFile)
	if err != nil {
		return nil, err
	}
	boards, err := leads.LoadBoards(cfg.LeadBoardsFile)
	if err != nil {
		return nil, err
	}
	return &Providers{Campaigns: campaigns, Presets: presets, Boards: boards}, nil
}

// buildGeocodeChain builds the providers named in cfg.Geocode.Providers, in order.
// Providers missing credentials are skipped with a warning.
func buildGeocodeChain(cfg config.ProvidersConfig, logger *slog.Logger) *geocode.Chain {
	g := cfg.Geocode
	providers := make([]core.Geocoder, 0, len(g.Providers))
	for _, name := range g.Providers {
		switch name {
		case "nominatim":
			providers = append(providers, geocode.NewNominatim(geocode.NominatimConfig{
				BaseURL:           g.NominatimURL,
				UserAgent:         g.UserAgent,
				Timeout:           cfg.Timeout,
				CountryCodes:      g.CountryCodes,
				RequestsPerSecond: float64(g.RequestsPerSec),
			}))
		case "google":
			p, err := geocode.NewGoogle(geocode.GoogleConfig{APIKey: g.GoogleAPIKey, BaseURL: g.GoogleURL, Timeout: cfg.Timeout})
			if err != nil {
				logger.Warn("skipping geocoder", "provider", name, "error", err)
				continue
			}
			providers = append(providers, p)
		case "mapbox":
			p, err := geocode.NewMapbox(geocode.MapboxConfig{AccessToken: g.MapboxToken, BaseURL: g.MapboxURL, Timeout: cfg.Timeout})
			if err != nil {
				logger.Warn("skipping geocoder", "provider", name, "error", err)
				continue
			}
			providers = append(providers, p)
		default:
			logger.Warn("unknown geocoder", "provider", name)
		}
	}
	if len(providers) == 0 {
		return nil
	}
	return geocode.NewChain(logger.With("component", "geocode"), providers...)
}

//nolint:ireturn // the cached wrapper and the bare chain share the port.
func cachedGeocoder(next core.Geocoder, cacheCfg config.CacheConfig, cache core.CacheRepository, logger *slog.Logger) core.Geocoder {
	if cache == nil {
		return next
	}
	return core.NewCachedGeocoder(core.CachedGeocoderOptions{
		Next:   next,
		Cache:  cache,
		TTL:    cacheCfg.GeocodeTTL,
		Logger: logger,
	})
}
