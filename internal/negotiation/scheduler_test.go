package negotiation_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangoroad/haggle/internal/negotiation"
)

func floatPtr(v float64) *float64 { return &v }

func stateWith(market, budget float64, offer *float64) negotiation.State {
	return negotiation.State{
		MaxRounds:   10,
		MarketPrice: market,
		Budget:      budget,
		SellerOffer: offer,
	}
}

func TestTargetPrice_AnchorBandConstant(t *testing.T) {
	cfg := negotiation.DefaultConfig()
	st := stateWith(100, 90, nil)

	anchor := negotiation.TargetPrice(1, cfg, st)
	assert.InDelta(t, 65.0, anchor, 1e-9)

	for round := 2; round <= cfg.AnchorEnd; round++ {
		assert.InDelta(t, anchor, negotiation.TargetPrice(round, cfg, st), 1e-9,
			"round %d should hold the anchor", round)
	}
}

func TestTargetPrice_MovementBandReachesMid(t *testing.T) {
	cfg := negotiation.DefaultConfig()
	st := stateWith(100, 1000, nil)

	// Movement band steps from the anchor toward MidPct, arriving exactly
	// at the band's last round.
	assert.InDelta(t, 68.75, negotiation.TargetPrice(4, cfg, st), 1e-9)
	assert.InDelta(t, 72.5, negotiation.TargetPrice(5, cfg, st), 1e-9)
	assert.InDelta(t, 76.25, negotiation.TargetPrice(6, cfg, st), 1e-9)
	assert.InDelta(t, 80.0, negotiation.TargetPrice(7, cfg, st), 1e-9)

	// Default late band is the single round 8, which lands on LatePct.
	assert.InDelta(t, 95.0, negotiation.TargetPrice(8, cfg, st), 1e-9)
}

func TestTargetPrice_Monotonic(t *testing.T) {
	cfg := negotiation.DefaultConfig()
	st := stateWith(100, 1000, nil)

	prev := 0.0
	for round := 1; round < cfg.FinalRound; round++ {
		target := negotiation.TargetPrice(round, cfg, st)
		assert.GreaterOrEqual(t, target, prev, "round %d", round)
		prev = target
	}
}

func TestTargetPrice_BestAndFinalMidpoint(t *testing.T) {
	cfg := negotiation.DefaultConfig()

	// Midpoint between the seller's offer and the budget.
	st := stateWith(100, 90, floatPtr(80))
	assert.InDelta(t, 85.0, negotiation.TargetPrice(9, cfg, st), 1e-9)

	// Budget clips the midpoint.
	st = stateWith(100, 70, floatPtr(80))
	assert.InDelta(t, 70.0, negotiation.TargetPrice(9, cfg, st), 1e-9)

	// Without a seller offer the late ceiling applies.
	st = stateWith(100, 1000, nil)
	assert.InDelta(t, 95.0, negotiation.TargetPrice(9, cfg, st), 1e-9)
}

func TestTargetPrice_NeverExceedsBudget(t *testing.T) {
	cfg := negotiation.DefaultConfig()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		market := 1 + rng.Float64()*500000
		budget := 1 + rng.Float64()*500000
		offer := market * (0.5 + rng.Float64())

		st := stateWith(market, budget, floatPtr(offer))
		for round := 1; round <= 10; round++ {
			target := negotiation.TargetPrice(round, cfg, st)
			require.LessOrEqual(t, target, budget,
				"round %d market %.2f budget %.2f", round, market, budget)
			require.Positive(t, target)
		}
	}
}

func TestTargetPrice_ConfigurableBands(t *testing.T) {
	cfg := negotiation.DefaultConfig()
	cfg.AnchorEnd = 2
	cfg.MovementEnd = 5
	cfg.FinalRound = 8
	require.NoError(t, cfg.Validate(10))

	st := stateWith(100, 1000, nil)
	assert.InDelta(t, 65.0, negotiation.TargetPrice(2, cfg, st), 1e-9)
	// Movement band 3-5 in three steps of 5 points each.
	assert.InDelta(t, 70.0, negotiation.TargetPrice(3, cfg, st), 1e-9)
	assert.InDelta(t, 75.0, negotiation.TargetPrice(4, cfg, st), 1e-9)
	assert.InDelta(t, 80.0, negotiation.TargetPrice(5, cfg, st), 1e-9)
	// Late band 6-7 in two steps of 7.5.
	assert.InDelta(t, 87.5, negotiation.TargetPrice(6, cfg, st), 1e-9)
	assert.InDelta(t, 95.0, negotiation.TargetPrice(7, cfg, st), 1e-9)
}
