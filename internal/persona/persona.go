// Package persona loads buyer personality configuration: identity, style,
// catchphrases, and the strategy parameters handed to the decision engine.
// Loaded once per session, read-only thereafter.
package persona

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mangoroad/haggle/internal/negotiation"
)

// Persona is a fully resolved buyer personality.
type Persona struct {
	Name         string
	Style        string
	Traits       []string
	Catchphrases []string
	Strategy     negotiation.Config
}

// file is the on-disk JSON shape. Strategy params are pointers so absent
// fields fall back to defaults instead of zero.
type file struct {
	Name         string   `json:"name"`
	Style        string   `json:"negotiation_style"`
	Traits       []string `json:"traits"`
	Catchphrases []string `json:"catchphrases"`
	Strategy     struct {
		OpeningPct          *float64 `json:"opening_pct"`
		MidPct              *float64 `json:"mid_pct"`
		LatePct             *float64 `json:"late_pct"`
		AnchorEnd           *int     `json:"anchor_end"`
		MovementEnd         *int     `json:"movement_end"`
		FinalRound          *int     `json:"final_round"`
		QualityAdjustment   *float64 `json:"quality_adjustment"`
		UrgencyAdjustment   *float64 `json:"urgency_adjustment"`
		FinalOfferTolerance *float64 `json:"final_offer_tolerance"`
	} `json:"strategy_params"`
}

// Default returns the stock aggressive buyer used when no persona file is
// supplied.
func Default() Persona {
	return Persona{
		Name:   "Arjun",
		Style:  "aggressive",
		Traits: []string{"direct", "impatient", "market-savvy"},
		Catchphrases: []string{
			"Put a solid number on the table.",
			"I know what this is worth.",
			"Plenty of options in this market.",
		},
		Strategy: negotiation.DefaultConfig(),
	}
}

// Load reads and validates a persona JSON file. Missing strategy fields
// take defaults; invalid values fail fast before any round is processed.
func Load(path string, maxRounds int) (Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona: %w", err)
	}
	return Parse(data, maxRounds)
}

// Parse decodes a persona from raw JSON and validates its strategy
// against the session round limit.
func Parse(data []byte, maxRounds int) (Persona, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return Persona{}, fmt.Errorf("parse persona: %w", err)
	}

	p := Default()
	if f.Name != "" {
		p.Name = f.Name
	}
	if f.Style != "" {
		p.Style = f.Style
	}
	if len(f.Traits) > 0 {
		p.Traits = f.Traits
	}
	if len(f.Catchphrases) > 0 {
		p.Catchphrases = f.Catchphrases
	}

	s := &p.Strategy
	if v := f.Strategy.OpeningPct; v != nil {
		s.OpeningPct = *v
	}
	if v := f.Strategy.MidPct; v != nil {
		s.MidPct = *v
	}
	if v := f.Strategy.LatePct; v != nil {
		s.LatePct = *v
	}
	if v := f.Strategy.AnchorEnd; v != nil {
		s.AnchorEnd = *v
	}
	if v := f.Strategy.MovementEnd; v != nil {
		s.MovementEnd = *v
	}
	if v := f.Strategy.FinalRound; v != nil {
		s.FinalRound = *v
	}
	if v := f.Strategy.QualityAdjustment; v != nil {
		s.QualityAdjustment = *v
	}
	if v := f.Strategy.UrgencyAdjustment; v != nil {
		s.UrgencyAdjustment = *v
	}
	if v := f.Strategy.FinalOfferTolerance; v != nil {
		s.FinalOfferTolerance = *v
	}

	if err := p.Strategy.Validate(maxRounds); err != nil {
		return Persona{}, err
	}
	return p, nil
}

// Catchphrase returns a deterministic catchphrase for the given round.
func (p Persona) Catchphrase(round int) string {
	if len(p.Catchphrases) == 0 {
		return ""
	}
	if round < 1 {
		round = 1
	}
	return p.Catchphrases[(round-1)%len(p.Catchphrases)]
}
