package persona_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoroad/haggle/internal/negotiation"
	"github.com/mangoroad/haggle/internal/persona"
)

func TestParse_FillsDefaults(t *testing.T) {
	p, err := persona.Parse([]byte(`{"name": "Meera"}`), 10)
	require.NoError(t, err)

	assert.Equal(t, "Meera", p.Name)
	assert.Equal(t, negotiation.DefaultConfig(), p.Strategy)
	assert.NotEmpty(t, p.Catchphrases)
}

func TestParse_OverridesStrategy(t *testing.T) {
	data := []byte(`{
		"name": "Ravi",
		"negotiation_style": "patient",
		"catchphrases": ["Quality speaks for itself."],
		"strategy_params": {
			"opening_pct": 0.70,
			"final_round": 8,
			"quality_adjustment": 1.05,
			"final_offer_tolerance": 0.03
		}
	}`)
	p, err := persona.Parse(data, 10)
	require.NoError(t, err)

	assert.Equal(t, "patient", p.Style)
	assert.InDelta(t, 0.70, p.Strategy.OpeningPct, 1e-9)
	assert.Equal(t, 8, p.Strategy.FinalRound)
	assert.InDelta(t, 1.05, p.Strategy.QualityAdjustment, 1e-9)
	assert.InDelta(t, 0.03, p.Strategy.FinalOfferTolerance, 1e-9)
	// Untouched fields keep defaults.
	assert.InDelta(t, 0.80, p.Strategy.MidPct, 1e-9)
}

func TestParse_RejectsBadFractions(t *testing.T) {
	// opening_pct outside (0, 1] fails before any round is processed.
	_, err := persona.Parse([]byte(`{"strategy_params": {"opening_pct": 1.2}}`), 10)
	var cfgErr *negotiation.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "opening_pct", cfgErr.Field)
}

func TestParse_RejectsFinalRoundPastLimit(t *testing.T) {
	_, err := persona.Parse([]byte(`{"strategy_params": {"final_round": 12}}`), 10)
	var cfgErr *negotiation.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "final_round", cfgErr.Field)
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	_, err := persona.Parse([]byte(`{not json`), 10)
	require.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Asha"}`), 0644))

	p, err := persona.Load(path, 10)
	require.NoError(t, err)
	assert.Equal(t, "Asha", p.Name)

	_, err = persona.Load(filepath.Join(t.TempDir(), "missing.json"), 10)
	require.Error(t, err)
}

func TestCatchphrase_Cycles(t *testing.T) {
	p := persona.Persona{Catchphrases: []string{"a", "b", "c"}}

	assert.Equal(t, "a", p.Catchphrase(1))
	assert.Equal(t, "b", p.Catchphrase(2))
	assert.Equal(t, "c", p.Catchphrase(3))
	assert.Equal(t, "a", p.Catchphrase(4))
	assert.Equal(t, "a", p.Catchphrase(0)) // out-of-range rounds clamp

	empty := persona.Persona{}
	assert.Empty(t, empty.Catchphrase(1))
}
