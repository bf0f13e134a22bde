// Package geocode resolves free-form addresses through Nominatim, Google and Mapbox.
// Provider responses are reduced to a common shape with JMESPath expressions.
package geocode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Every provider expression projects to {lat, lon, display, city, state, zip}.

func extract(providerName, expr string, body []byte) (*model.GeoResult, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", providerName, err)
	}
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s response: %w", providerName, err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, nil
	}
	lat, latOK := toFloat(m["lat"])
	lon, lonOK := toFloat(m["lon"])
	if !latOK || !lonOK {
		return nil, nil
	}
	return &model.GeoResult{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: toString(m["display"]),
		City:             toString(m["city"]),
		State:            normalizeState(toString(m["state"])),
		Zip:              toString(m["zip"]),
		Provider:         providerName,
	}, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// normalizeState turns ISO 3166-2 codes such as "US-TX" into "TX".
func normalizeState(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "US-")
}
