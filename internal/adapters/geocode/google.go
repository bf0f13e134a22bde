package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradedispatch/dispatch-api/internal/adapters/provider"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

const googleExpr = `results[0].{
	lat: geometry.location.lat,
	lon: geometry.location.lng,
	display: formatted_address,
	city: address_components[?contains(types, 'locality')].long_name | [0],
	state: address_components[?contains(types, 'administrative_area_level_1')].short_name | [0],
	zip: address_components[?contains(types, 'postal_code')].long_name | [0]
}`

// GoogleConfig configures the Google Maps geocoder.
type GoogleConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Google geocodes through the Google Maps Geocoding API.
type Google struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// NewGoogle builds a Google geocoder.
func NewGoogle(cfg GoogleConfig) (*Google, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("google geocoding api key is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://maps.googleapis.com"
	}
	return &Google{apiKey: key, baseURL: base, hc: provider.HTTPClient(cfg.Client, cfg.Timeout)}, nil
}

// Name returns the provider name.
func (g *Google) Name() string { return "google" }

// Geocode resolves address. ZERO_RESULTS is a miss; other non-OK statuses are errors.
func (g *Google) Geocode(ctx context.Context, address string) (*model.GeoResult, error) {
	q := url.Values{"address": {address}, "key": {g.apiKey}, "components": {"country:US"}}
	body, err := provider.Do(ctx, g.hc, provider.Request{
		Provider: g.Name(),
		Method:   http.MethodGet,
		URL:      g.baseURL + "/maps/api/geocode/json?" + q.Encode(),
	})
	if err != nil {
		return nil, err
	}

	var status struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode google response: %w", err)
	}
	switch status.Status {
	case "OK":
		return extract(g.Name(), googleExpr, body)
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("google geocode status %s: %s", status.Status, status.ErrorMessage)
	}
}
