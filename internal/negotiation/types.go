// Package negotiation implements the buyer's offer-decision policy: a
// deterministic state machine that maps round state to one of counter,
// accept, or reject under a staged concession schedule.
//
// The package performs no I/O and holds no hidden state. Message phrasing,
// persistence, and the simulation loop live elsewhere.
package negotiation

import "fmt"

// ActionKind tags the three possible buyer actions.
type ActionKind uint8

const (
	ActionCounter ActionKind = iota
	ActionAccept
	ActionReject
)

// String returns the action kind as a short lowercase label.
func (k ActionKind) String() string {
	switch k {
	case ActionCounter:
		return "counter"
	case ActionAccept:
		return "accept"
	case ActionReject:
		return "reject"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Action is the buyer's decision for one round. Price carries the counter
// or acceptance price and is zero for ActionReject. Every priced action
// satisfies Price <= Budget.
type Action struct {
	Kind  ActionKind
	Price float64
}

// State is the round input supplied by the harness. SellerOffer is nil on
// rounds where the seller has not yet named a number (round 1 only — a nil
// offer on any later round is a protocol error).
type State struct {
	Round        int
	MaxRounds    int
	MarketPrice  float64
	Budget       float64
	SellerOffer  *float64
	IsFinalOffer bool
}

// Config holds the strategy parameters of a buyer persona. Constructed
// once per session, read-only thereafter.
type Config struct {
	// Concession schedule fractions of market price, each in (0, 1].
	OpeningPct float64
	MidPct     float64
	LatePct    float64

	// Phase boundaries (inclusive last round of each band). Defaults put
	// the anchor band at rounds 1-3 and the movement band at 4-7.
	AnchorEnd   int
	MovementEnd int

	// FinalRound triggers the best-and-final override. Must not exceed
	// the session's max rounds.
	FinalRound int

	// Fair-price multipliers applied to market price.
	QualityAdjustment float64
	UrgencyAdjustment float64

	// FinalOfferTolerance is the relative gap above the scheduled target
	// within which a seller "final offer" is accepted (0.05 = 5%).
	FinalOfferTolerance float64
}

// DefaultConfig returns the stock aggressive-buyer parameters.
func DefaultConfig() Config {
	return Config{
		OpeningPct:          0.65,
		MidPct:              0.80,
		LatePct:             0.95,
		AnchorEnd:           3,
		MovementEnd:         7,
		FinalRound:          9,
		QualityAdjustment:   1.0,
		UrgencyAdjustment:   1.0,
		FinalOfferTolerance: 0.05,
	}
}

// Validate rejects malformed strategy parameters before any round is
// processed. maxRounds is the session round limit the config must fit.
func (c Config) Validate(maxRounds int) error {
	check := func(field string, v float64) error {
		if v <= 0 || v > 1 {
			return &ConfigError{Field: field, Reason: fmt.Sprintf("%g outside (0, 1]", v)}
		}
		return nil
	}
	if err := check("opening_pct", c.OpeningPct); err != nil {
		return err
	}
	if err := check("mid_pct", c.MidPct); err != nil {
		return err
	}
	if err := check("late_pct", c.LatePct); err != nil {
		return err
	}
	if c.FinalRound < 2 || c.FinalRound > maxRounds {
		return &ConfigError{Field: "final_round", Reason: fmt.Sprintf("%d outside [2, %d]", c.FinalRound, maxRounds)}
	}
	if c.AnchorEnd < 1 || c.AnchorEnd >= c.MovementEnd {
		return &ConfigError{Field: "anchor_end", Reason: fmt.Sprintf("%d must be >= 1 and below movement_end %d", c.AnchorEnd, c.MovementEnd)}
	}
	if c.MovementEnd >= c.FinalRound {
		return &ConfigError{Field: "movement_end", Reason: fmt.Sprintf("%d must be below final_round %d", c.MovementEnd, c.FinalRound)}
	}
	if c.QualityAdjustment <= 0 {
		return &ConfigError{Field: "quality_adjustment", Reason: fmt.Sprintf("%g must be positive", c.QualityAdjustment)}
	}
	if c.UrgencyAdjustment <= 0 {
		return &ConfigError{Field: "urgency_adjustment", Reason: fmt.Sprintf("%g must be positive", c.UrgencyAdjustment)}
	}
	if c.FinalOfferTolerance < 0 {
		return &ConfigError{Field: "final_offer_tolerance", Reason: fmt.Sprintf("%g must not be negative", c.FinalOfferTolerance)}
	}
	return nil
}

// FairPrice is the buyer's computed fair value for the current round:
// market price scaled by the persona's quality and urgency multipliers.
// Derived on demand, never stored.
func FairPrice(marketPrice float64, cfg Config) float64 {
	return marketPrice * cfg.QualityAdjustment * cfg.UrgencyAdjustment
}
