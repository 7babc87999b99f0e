// Package observe extracts structured round input from free-text seller
// messages: the quoted price, finality, urgency, and concession signals.
// Only the harness boundary uses it — the decision engine consumes
// structured state and never parses text.
package observe

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Prices appear either tagged with a currency marker or as bare
	// numbers of at least four digits (smaller bare numbers are too
	// likely to be quantities or round references).
	priceRe      = regexp.MustCompile(`(?i)(?:₹|INR|Rs\.?)\s*([\d,]+)|\b(\d{4,})\b`)
	finalRe      = regexp.MustCompile(`(?i)\b(final|take it or leave it|last)\b`)
	urgentRe     = regexp.MustCompile(`(?i)\b(urgent|today|immediately)\b`)
	concessionRe = regexp.MustCompile(`(?i)\b(come down|reduce|lower)\b`)
)

// Observation is what the parser saw in one seller message.
type Observation struct {
	SellerOffer *float64
	IsFinal     bool
	Urgency     float64
	Concession  bool
	Raw         string
}

// Parse scans a seller message for a price and negotiation signals.
func Parse(message string) Observation {
	obs := Observation{Raw: message}

	if m := priceRe.FindStringSubmatch(message); m != nil {
		num := m[1]
		if num == "" {
			num = m[2]
		}
		num = strings.ReplaceAll(num, ",", "")
		if v, err := strconv.ParseFloat(num, 64); err == nil && v > 0 {
			obs.SellerOffer = &v
		}
	}

	obs.IsFinal = finalRe.MatchString(message)
	obs.Concession = concessionRe.MatchString(message)

	if obs.IsFinal || urgentRe.MatchString(message) {
		obs.Urgency = 0.9
	} else {
		obs.Urgency = 0.3
	}

	return obs
}
