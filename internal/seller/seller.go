// Package seller provides the scripted counterparty the harness
// negotiates against. The seller's true minimum is hidden from the buyer;
// a seeded noise layer varies its markup smoothly across rounds so
// repeated matches with the same seed replay identically.
package seller

import (
	"fmt"

	"github.com/dustin/go-humanize"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mangoroad/haggle/internal/market"
)

// Scripted is a deterministic seller with a hidden minimum price.
type Scripted struct {
	MinPrice float64

	noise opensimplex.Noise
}

// NewScripted creates a seller that will not go below minPrice. The seed
// drives its per-round temperament.
func NewScripted(minPrice float64, seed int64) *Scripted {
	return &Scripted{
		MinPrice: minPrice,
		noise:    opensimplex.NewNormalized(seed),
	}
}

// OpeningPrice quotes the seller's opening ask for a product, at 1.5x
// market.
func (s *Scripted) OpeningPrice(p market.Product) (float64, string) {
	price := p.MarketPrice * 1.5
	msg := fmt.Sprintf("These are premium %s grade %s. I'm asking ₹%s.",
		p.QualityGrade, p.Name, humanize.CommafWithDigits(price, 0))
	return price, msg
}

// Respond reacts to a buyer counter-offer. Returns the seller's next
// price, the message carrying it, and whether the seller accepted.
func (s *Scripted) Respond(buyerOffer float64, round int) (float64, string, bool) {
	// Accept anything with a comfortable margin over the hidden minimum.
	if buyerOffer >= s.MinPrice*1.1 {
		return buyerOffer, fmt.Sprintf("You have a deal at ₹%s!",
			humanize.CommafWithDigits(buyerOffer, 0)), true
	}

	// Late rounds: soften aggressively and declare finality.
	if round >= 8 {
		counter := buyerOffer * 1.05
		if counter < s.MinPrice {
			counter = s.MinPrice
		}
		return counter, fmt.Sprintf("Final offer: ₹%s. Take it or leave it.",
			humanize.CommafWithDigits(counter, 0)), false
	}

	// Normal rounds: come down to roughly 15% above the buyer's offer,
	// swayed a few points either way by temperament.
	counter := buyerOffer * s.markup(round)
	if counter < s.MinPrice {
		counter = s.MinPrice
	}
	return counter, fmt.Sprintf("I can come down to ₹%s.",
		humanize.CommafWithDigits(counter, 0)), false
}

// markup is the seller's concession factor for a round: 1.15 shifted up
// to ±0.03 by smooth seeded noise.
func (s *Scripted) markup(round int) float64 {
	// Normalized noise is in [0, 1]; recenter to [-1, 1].
	t := s.noise.Eval2(float64(round)*0.35, 0.5)*2 - 1
	return 1.15 + 0.03*t
}
