package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const mapboxExpr = `features[0].{
	lon: center[0],
	lat: center[1],
	display: place_name,
	city: context[?starts_with(id, 'place.')].text | [0],
	state: context[?starts_with(id, 'region.')].short_code | [0],
	zip: context[?starts_with(id, 'postcode.')].text | [0]
}`

// MapboxConfig configures the Mapbox geocoder.
type MapboxConfig struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
	Client      *http.Client
}

// Mapbox geocodes through the Mapbox Geocoding v5 API.
type Mapbox struct {
	token   string
	baseURL string
	hc      *http.Client
}

// NewMapbox builds a Mapbox geocoder.
func NewMapbox(cfg MapboxConfig) (*Mapbox, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errors.New("mapbox access token is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.mapbox.com"
	}
	return &Mapbox{token: token, baseURL: base, hc: provider.HTTPClient(cfg.Client, cfg.Timeout)}, nil
}

// Name returns the provider name.
func (m *Mapbox) Name() string { return "mapbox" }

// Geocode resolves address.
func (m *Mapbox) Geocode(ctx context.Context, address string) (*model.GeoResult, error) {
	q := url.Values{"access_token": {m.token}, "country": {"us"}, "limit": {"1"}, "types": {"address,place,postcode"}}
	body, err := provider.Do(ctx, m.hc, provider.Request{
		Provider: m.Name(),
		Method:   http.MethodGet,
		URL:      m.baseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(address) + ".json?" + q.Encode(),
	})
	if err != nil {
		return nil, err
	}
	return extract(m.Name(), mapboxExpr, body)
}
