// Package sla resolves per-stage time budgets and projects timer status.
package sla

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

// Fallback is returned for any (trade, urgency) pair absent from the preset table.
var Fallback = model.SLAConfig{Dispatch: 60, Assignment: 120, Arrival: 240, Completion: 480}

// Presets is the static SLA table keyed by "{trade}-{urgency}".
type Presets struct {
	Fallback model.SLAConfig            `yaml:"fallback"`
	Entries  map[string]model.SLAConfig `yaml:"presets"`
}

// ParsePresets decodes and validates a preset table.
func ParsePresets(r io.Reader) (*Presets, error) {
	var p Presets
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode sla presets: %w", err)
	}
	if p.Fallback == (model.SLAConfig{}) {
		p.Fallback = Fallback
	}
	if err := p.Fallback.Validate(); err != nil {
		return nil, fmt.Errorf("sla fallback: %w", err)
	}

	entries := make(map[string]model.SLAConfig, len(p.Entries))
	for key, cfg := range p.Entries {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if normalized == "" {
			return nil, errors.New("sla preset key must not be empty")
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sla preset %q: %w", key, err)
		}
		entries[normalized] = cfg
	}
	p.Entries = entries
	return &p, nil
}

// DefaultPresets returns the embedded preset table.
func DefaultPresets() *Presets {
	p, err := ParsePresets(strings.NewReader(string(defaultPresetsYAML)))
	if err != nil {
		//nolint:forbidigo // embedded data is validated by tests
		panic(fmt.Sprintf("embedded sla presets invalid: %v", err))
	}
	return p
}

// LoadPresets reads a preset table from path, or returns the embedded table when path is empty.
func LoadPresets(path string) (*Presets, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPresets(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sla presets: %w", err)
	}
	defer f.Close()
	return ParsePresets(f)
}

// Keys returns the preset keys in sorted order.
func (p *Presets) Keys() []string {
	keys := make([]string, 0, len(p.Entries))
	for k := range p.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolver maps a (trade, urgency) pair to stage budgets.
type Resolver struct {
	presets *Presets
}

// NewResolver builds a resolver over the given table. A nil table uses the embedded defaults.
func NewResolver(p *Presets) *Resolver {
	if p == nil {
		p = DefaultPresets()
	}
	return &Resolver{presets: p}
}

// Resolve returns the preset for "{trade}-{urgency}" or the fallback. It never fails.
// Trade and urgency are matched case-insensitively.
func (r *Resolver) Resolve(trade, urgency string) model.SLAConfig {
	if cfg, ok := r.Lookup(trade, urgency); ok {
		return cfg
	}
	return r.presets.Fallback
}

// Lookup reports whether an exact preset exists for the pair.
func (r *Resolver) Lookup(trade, urgency string) (model.SLAConfig, bool) {
	cfg, ok := r.presets.Entries[Key(trade, urgency)]
	return cfg, ok
}

// Presets exposes the underlying table.
func (r *Resolver) Presets() *Presets {
	return r.presets
}

// Key builds the table key for a pair.
func Key(trade, urgency string) string {
	return strings.ToLower(strings.TrimSpace(trade)) + "-" + strings.ToLower(strings.TrimSpace(urgency))
}

// ApplyOverride replaces every stage that has a positive override value.
func ApplyOverride(base model.SLAConfig, override *model.SLAConfig) model.SLAConfig {
	if override == nil {
		return base
	}
	out := base
	if override.Dispatch > 0 {
		out.Dispatch = override.Dispatch
	}
	if override.Assignment > 0 {
		out.Assignment = override.Assignment
	}
	if override.Arrival > 0 {
		out.Arrival = override.Arrival
	}
	if override.Completion > 0 {
		out.Completion = override.Completion
	}
	return out
}
