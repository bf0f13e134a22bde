package sla

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

func TestDefaultPresetsLoad(t *testing.T) {
	p := DefaultPresets()
	require.NotEmpty(t, p.Entries)
	assert.Equal(t, Fallback, p.Fallback)
	assert.Contains(t, p.Keys(), "hvac-emergency")
}

func TestResolve_EveryPresetResolvesToItself(t *testing.T) {
	r := NewResolver(nil)
	for key, want := range r.Presets().Entries {
		trade, urgency, ok := strings.Cut(key, "-")
		require.True(t, ok, "preset key %q must be trade-urgency", key)
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, want, r.Resolve(trade, urgency))
		})
	}
}

func TestResolve_MissingPairsFallBack(t *testing.T) {
	r := NewResolver(nil)
	cases := []struct{ trade, urgency string }{
		{"hvac", "whenever"},
		{"pool", "emergency"},
		{"", ""},
		{"hvac-emergency", ""},
	}
	want := model.SLAConfig{Dispatch: 60, Assignment: 120, Arrival: 240, Completion: 480}
	for _, tc := range cases {
		assert.Equal(t, want, r.Resolve(tc.trade, tc.urgency), "%s/%s", tc.trade, tc.urgency)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, r.Resolve("hvac", "emergency"), r.Resolve(" HVAC ", "Emergency"))
}

func TestApplyOverride(t *testing.T) {
	base := model.SLAConfig{Dispatch: 60, Assignment: 120, Arrival: 240, Completion: 480}

	assert.Equal(t, base, ApplyOverride(base, nil))

	got := ApplyOverride(base, &model.SLAConfig{Dispatch: 10, Completion: -5})
	assert.Equal(t, model.SLAConfig{Dispatch: 10, Assignment: 120, Arrival: 240, Completion: 480}, got)
}

func TestParsePresets(t *testing.T) {
	t.Run("custom table", func(t *testing.T) {
		p, err := ParsePresets(strings.NewReader(`
presets:
  Pool-Urgent: {dispatch: 5, assignment: 10, arrival: 20, completion: 40}
`))
		require.NoError(t, err)
		assert.Equal(t, Fallback, p.Fallback)
		r := NewResolver(p)
		assert.Equal(t, model.SLAConfig{Dispatch: 5, Assignment: 10, Arrival: 20, Completion: 40}, r.Resolve("pool", "urgent"))
	})

	t.Run("rejects zero budget", func(t *testing.T) {
		_, err := ParsePresets(strings.NewReader(`
presets:
  hvac-urgent: {dispatch: 0, assignment: 10, arrival: 20, completion: 40}
`))
		require.Error(t, err)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := ParsePresets(strings.NewReader("tables: {}\n"))
		require.Error(t, err)
	})
}

func TestLoadPresets(t *testing.T) {
	p, err := LoadPresets("")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Entries)

	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fallback: {dispatch: 1, assignment: 2, arrival: 3, completion: 4}
presets: {}
`), 0o600))
	p, err = LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, model.SLAConfig{Dispatch: 1, Assignment: 2, Arrival: 3, Completion: 4}, NewResolver(p).Resolve("x", "y"))

	_, err = LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
