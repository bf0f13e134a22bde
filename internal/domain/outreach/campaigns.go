// Package outreach holds the pure rules of job dispatch: who is warm, which
// campaign a cold lead joins, and what a job invitation carries.
package outreach

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFallbackTrade is the trade whose campaign receives unmatched trades.
const DefaultFallbackTrade = "hvac"

// CampaignFile is the on-disk form of the campaign catalog.
type CampaignFile struct {
	Campaigns map[string]string `yaml:"campaigns"`
	Fallback  string            `yaml:"fallback"`
}

// Catalog maps trades to cold-outreach campaign IDs.
type Catalog struct {
	byTrade  map[string]string
	fallback string
}

// NewCatalog builds a catalog. Keys are matched case-insensitively. An empty
// fallback resolves to the HVAC campaign.
func NewCatalog(campaigns map[string]string, fallback string) *Catalog {
	c := &Catalog{byTrade: make(map[string]string, len(campaigns))}
	for trade, id := range campaigns {
		trade = strings.ToLower(strings.TrimSpace(trade))
		id = strings.TrimSpace(id)
		if trade == "" || id == "" {
			continue
		}
		c.byTrade[trade] = id
	}
	c.fallback = strings.TrimSpace(fallback)
	if c.fallback == "" {
		c.fallback = c.byTrade[DefaultFallbackTrade]
	}
	return c
}

// LoadCatalog reads a YAML catalog from path and layers env entries on top.
// An empty path yields a catalog built from env alone.
func LoadCatalog(path string, env map[string]string, envFallback string) (*Catalog, error) {
	merged := map[string]string{}
	fallback := ""
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open campaign file: %w", err)
		}
		defer f.Close()
		file, err := ParseCampaignFile(f)
		if err != nil {
			return nil, err
		}
		maps.Copy(merged, file.Campaigns)
		fallback = file.Fallback
	}
	maps.Copy(merged, env)
	if strings.TrimSpace(envFallback) != "" {
		fallback = envFallback
	}
	return NewCatalog(merged, fallback), nil
}

// ParseCampaignFile decodes a campaign catalog.
func ParseCampaignFile(r io.Reader) (*CampaignFile, error) {
	var f CampaignFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode campaign file: %w", err)
	}
	return &f, nil
}

// Resolve returns the campaign for trade, falling back when unmatched.
// ok is false when neither the trade nor the fallback has a campaign.
func (c *Catalog) Resolve(trade string) (string, bool) {
	if c == nil {
		return "", false
	}
	if id, ok := c.byTrade[strings.ToLower(strings.TrimSpace(trade))]; ok {
		return id, true
	}
	return c.fallback, c.fallback != ""
}

// Empty reports whether no campaign is configured at all.
func (c *Catalog) Empty() bool {
	return c == nil || (len(c.byTrade) == 0 && c.fallback == "")
}

// Trades lists configured trades.
func (c *Catalog) Trades() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.byTrade))
	for t := range c.byTrade {
		out = append(out, t)
	}
	return out
}
