package geocode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

func serve(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNominatim(t *testing.T) {
	srv := serve(t, `[{"lat":"30.2672","lon":"-97.7431","display_name":"123 Main St, Austin, Texas","address":{"town":"Austin","ISO3166-2-lvl4":"US-TX","postcode":"78701"}}]`,
		func(r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			assert.Equal(t, "123 Main St Austin", r.URL.Query().Get("q"))
			assert.Equal(t, "us,ca", r.URL.Query().Get("countrycodes"))
		})
	g := NewNominatim(NominatimConfig{
		BaseURL:      srv.URL,
		UserAgent:    "test-agent",
		CountryCodes: "US, CA",
		Client:       srv.Client(),
	})

	res, err := g.Geocode(context.Background(), "123 Main St Austin")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, model.GeoResult{
		Latitude:         30.2672,
		Longitude:        -97.7431,
		FormattedAddress: "123 Main St, Austin, Texas",
		City:             "Austin",
		State:            "TX",
		Zip:              "78701",
		Provider:         "nominatim",
	}, *res)
}

func TestNominatimNoMatch(t *testing.T) {
	srv := serve(t, `[]`, nil)
	g := NewNominatim(NominatimConfig{BaseURL: srv.URL, Client: srv.Client()})
	res, err := g.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestGoogle(t *testing.T) {
	srv := serve(t, `{"status":"OK","results":[{
		"formatted_address":"500 Elm St, Dallas, TX 75201, USA",
		"geometry":{"location":{"lat":32.78,"lng":-96.8}},
		"address_components":[
			{"long_name":"Dallas","short_name":"Dallas","types":["locality","political"]},
			{"long_name":"Texas","short_name":"TX","types":["administrative_area_level_1","political"]},
			{"long_name":"75201","short_name":"75201","types":["postal_code"]}
		]}]}`,
		func(r *http.Request) {
			assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
			assert.Equal(t, "gk", r.URL.Query().Get("key"))
		})
	g, err := NewGoogle(GoogleConfig{APIKey: "gk", BaseURL: srv.URL, Client: srv.Client()})
	require.NoError(t, err)

	res, err := g.Geocode(context.Background(), "500 Elm St Dallas")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 32.78, res.Latitude, 1e-9)
	assert.InDelta(t, -96.8, res.Longitude, 1e-9)
	assert.Equal(t, "Dallas", res.City)
	assert.Equal(t, "TX", res.State)
	assert.Equal(t, "75201", res.Zip)
	assert.Equal(t, "google", res.Provider)
}

func TestGoogleStatuses(t *testing.T) {
	t.Run("zero results", func(t *testing.T) {
		srv := serve(t, `{"status":"ZERO_RESULTS","results":[]}`, nil)
		g, err := NewGoogle(GoogleConfig{APIKey: "gk", BaseURL: srv.URL, Client: srv.Client()})
		require.NoError(t, err)
		res, err := g.Geocode(context.Background(), "x")
		require.NoError(t, err)
		assert.Nil(t, res)
	})
	t.Run("denied", func(t *testing.T) {
		srv := serve(t, `{"status":"REQUEST_DENIED","error_message":"bad key"}`, nil)
		g, err := NewGoogle(GoogleConfig{APIKey: "gk", BaseURL: srv.URL, Client: srv.Client()})
		require.NoError(t, err)
		_, err = g.Geocode(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})
	t.Run("missing key", func(t *testing.T) {
		_, err := NewGoogle(GoogleConfig{})
		require.Error(t, err)
	})
}

func TestMapbox(t *testing.T) {
	srv := serve(t, `{"features":[{
		"center":[-95.37,29.76],
		"place_name":"1 Main St, Houston, Texas 77002, United States",
		"context":[
			{"id":"postcode.123","text":"77002"},
			{"id":"place.456","text":"Houston"},
			{"id":"region.789","text":"Texas","short_code":"US-TX"}
		]}]}`,
		func(r *http.Request) {
			assert.Equal(t, "mt", r.URL.Query().Get("access_token"))
		})
	g, err := NewMapbox(MapboxConfig{AccessToken: "mt", BaseURL: srv.URL, Client: srv.Client()})
	require.NoError(t, err)

	res, err := g.Geocode(context.Background(), "1 Main St Houston")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 29.76, res.Latitude, 1e-9)
	assert.InDelta(t, -95.37, res.Longitude, 1e-9)
	assert.Equal(t, "Houston", res.City)
	assert.Equal(t, "TX", res.State)
	assert.Equal(t, "77002", res.Zip)
}

type stubGeocoder struct {
	name   string
	res    *model.GeoResult
	err    error
	called int
}

func (s *stubGeocoder) Name() string { return s.name }

func (s *stubGeocoder) Geocode(context.Context, string) (*model.GeoResult, error) {
	s.called++
	return s.res, s.err
}

var _ core.Geocoder = (*stubGeocoder)(nil)

func TestChainFirstResultWins(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	first := &stubGeocoder{name: "a", err: errors.New("boom")}
	second := &stubGeocoder{name: "b"}
	third := &stubGeocoder{name: "c", res: &model.GeoResult{City: "Austin", Provider: "c"}}
	fourth := &stubGeocoder{name: "d", res: &model.GeoResult{City: "Dallas", Provider: "d"}}

	chain := NewChain(logger, first, nil, second, third, fourth)
	assert.Equal(t, "chain(a,b,c,d)", chain.Name())

	res, err := chain.Geocode(context.Background(), "addr")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "c", res.Provider)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 1, second.called)
	assert.Equal(t, 0, fourth.called)
}

func TestChainAllFailed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := NewChain(logger,
		&stubGeocoder{name: "a", err: errors.New("a down")},
		&stubGeocoder{name: "b", err: errors.New("b down")},
	)
	_, err := chain.Geocode(context.Background(), "addr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a down")
	assert.Contains(t, err.Error(), "b down")

	mixed := NewChain(logger, &stubGeocoder{name: "a", err: errors.New("a down")}, &stubGeocoder{name: "b"})
	res, err := mixed.Geocode(context.Background(), "addr")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestNormalizeState(t *testing.T) {
	assert.Equal(t, "TX", normalizeState("US-TX"))
	assert.Equal(t, "CA", normalizeState(" ca "))
	assert.Equal(t, "", normalizeState(""))
}
