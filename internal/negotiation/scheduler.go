package negotiation

// The concession scheduler maps a round to the buyer's target counter
// price. Three phase bands ramp the offered fraction of market price from
// a low anchor toward the buyer's ceiling, then a best-and-final override
// takes over at FinalRound. Output is always clipped to the budget — the
// scheduler never proposes a price the buyer cannot afford.

// TargetPrice returns the scheduled counter price for the given round.
// The result is non-decreasing across rounds 1..FinalRound-1 for a fixed
// config and market price, and never exceeds st.Budget.
func TargetPrice(round int, cfg Config, st State) float64 {
	var target float64

	switch {
	case round >= cfg.FinalRound:
		target = bestAndFinal(cfg, st)
	case round <= cfg.AnchorEnd:
		// Anchor band: hold the opening fraction, no movement.
		target = st.MarketPrice * cfg.OpeningPct
	case round <= cfg.MovementEnd:
		frac := interpolate(cfg.OpeningPct, cfg.MidPct, round, cfg.AnchorEnd+1, cfg.MovementEnd)
		target = st.MarketPrice * frac
	default:
		frac := interpolate(cfg.MidPct, cfg.LatePct, round, cfg.MovementEnd+1, cfg.FinalRound-1)
		target = st.MarketPrice * frac
	}

	if target > st.Budget {
		target = st.Budget
	}
	return target
}

// interpolate steps a fraction from lo toward hi across the inclusive
// band [first, last], reaching hi exactly at the last round. A one-round
// band yields hi so the schedule still lands on the band's ceiling.
func interpolate(lo, hi float64, round, first, last int) float64 {
	span := last - first + 1
	if span < 1 {
		return hi
	}
	step := round - first + 1
	if step > span {
		step = span
	}
	return lo + (hi-lo)*float64(step)/float64(span)
}

// bestAndFinal computes the last-call target: the midpoint between the
// seller's latest offer and the budget. The LatePct ceiling only applies
// when it sits at or above the midpoint — budget takes priority, so the
// ceiling never drags the target below the midpoint.
func bestAndFinal(cfg Config, st State) float64 {
	if st.SellerOffer == nil {
		// No number on the table; fall back to the late-band ceiling.
		return st.MarketPrice * cfg.LatePct
	}
	return (*st.SellerOffer + st.Budget) / 2
}
