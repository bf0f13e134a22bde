package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const nominatimExpr = `[0].{
	lat: lat,
	lon: lon,
	display: display_name,
	city: address.city || address.town || address.village || address.hamlet,
	state: address."ISO3166-2-lvl4",
	zip: address.postcode
}`

// NominatimConfig configures the OpenStreetMap Nominatim geocoder.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Email     string
	Timeout   time.Duration
	Client    *http.Client
	// CountryCodes restricts results, comma separated ISO 3166-1 codes. Defaults to "us".
	CountryCodes string
	// RequestsPerSecond throttles calls; the public instance allows 1/s.
	RequestsPerSecond float64
}

// Nominatim geocodes through an OpenStreetMap Nominatim instance. It needs no API key.
type Nominatim struct {
	baseURL   string
	userAgent string
	email     string
	countries string
	limiter   *rate.Limiter
	hc        *http.Client
}

// NewNominatim builds a Nominatim geocoder.
func NewNominatim(cfg NominatimConfig) *Nominatim {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "dispatch-api/1.0"
	}
	countries := strings.ToLower(strings.ReplaceAll(cfg.CountryCodes, " ", ""))
	if countries == "" {
		countries = "us"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Nominatim{
		baseURL:   base,
		userAgent: ua,
		email:     cfg.Email,
		countries: countries,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		hc:        provider.HTTPClient(cfg.Client, cfg.Timeout),
	}
}

// Name returns the provider name.
func (n *Nominatim) Name() string { return "nominatim" }

// Geocode resolves address, restricted to the configured countries.
func (n *Nominatim) Geocode(ctx context.Context, address string) (*model.GeoResult, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	q := url.Values{
		"q":              {address},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {"1"},
		"countrycodes":   {n.countries},
	}
	if n.email != "" {
		q.Set("email", n.email)
	}
	body, err := provider.Do(ctx, n.hc, provider.Request{
		Provider: n.Name(),
		Method:   http.MethodGet,
		URL:      n.baseURL + "/search?" + q.Encode(),
		Headers:  map[string]string{"User-Agent": n.userAgent},
	})
	if err != nil {
		return nil, err
	}
	return extract(n.Name(), nominatimExpr, body)
}
