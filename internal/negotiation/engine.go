package negotiation

import "fmt"

// Decide computes the buyer's action for one round. Checks run in strict
// priority order: timeout, round-input validation, auto-accept at fair
// value, final-offer tolerance, scheduled counter. The budget clip on the
// returned price is the last operation before returning, regardless of
// what the scheduler or any heuristic produced.
func Decide(st State, cfg Config) (Action, error) {
	// Timeout is terminal and ignores everything else about the round.
	if st.MaxRounds > 0 && st.Round > st.MaxRounds {
		return Action{Kind: ActionReject}, nil
	}

	if err := validateRound(st); err != nil {
		return Action{}, err
	}

	// Auto-accept: never pay above computed fair value. Countering could
	// extract more savings but risks stalling a deal already worth taking.
	fair := FairPrice(st.MarketPrice, cfg)
	if st.SellerOffer != nil && *st.SellerOffer <= fair && *st.SellerOffer <= st.Budget {
		return Action{Kind: ActionAccept, Price: clip(*st.SellerOffer, st.Budget)}, nil
	}

	target := TargetPrice(st.Round, cfg, st)

	// Final-offer heuristic: a marginal gap above our target is not worth
	// losing the deal over when the seller says this is their last word.
	if st.IsFinalOffer && st.SellerOffer != nil {
		offer := *st.SellerOffer
		if offer <= target*(1+cfg.FinalOfferTolerance) && offer <= st.Budget {
			return Action{Kind: ActionAccept, Price: clip(offer, st.Budget)}, nil
		}
	}

	return Action{Kind: ActionCounter, Price: clip(target, st.Budget)}, nil
}

// validateRound enforces the round-input protocol. A missing seller offer
// after round 1 is an error, never silently treated as zero.
func validateRound(st State) error {
	if st.Round < 1 {
		return &ProtocolError{Round: st.Round, Field: "round", Reason: "must be >= 1"}
	}
	if st.MarketPrice <= 0 {
		return &ProtocolError{Round: st.Round, Field: "market_price", Reason: fmt.Sprintf("%g must be positive", st.MarketPrice)}
	}
	if st.Budget <= 0 {
		return &ProtocolError{Round: st.Round, Field: "budget", Reason: fmt.Sprintf("%g must be positive", st.Budget)}
	}
	if st.SellerOffer == nil && st.Round > 1 {
		return &ProtocolError{Round: st.Round, Field: "seller_offer", Reason: "missing after round 1"}
	}
	if st.SellerOffer != nil && *st.SellerOffer <= 0 {
		return &ProtocolError{Round: st.Round, Field: "seller_offer", Reason: fmt.Sprintf("%g must be positive", *st.SellerOffer)}
	}
	return nil
}

// clip enforces the hard safety bound: no emitted price ever exceeds the
// budget.
func clip(price, budget float64) float64 {
	if price > budget {
		return budget
	}
	return price
}
