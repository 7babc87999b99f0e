// Package session orchestrates one negotiation: persona, decision engine,
// exchange memory, and phrasing. A session is strictly sequential — one
// decision per round — and transitions Active → Terminal exactly once.
// Sessions share no state, so running many concurrently needs no locking.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mangoroad/haggle/internal/memory"
	"github.com/mangoroad/haggle/internal/negotiation"
	"github.com/mangoroad/haggle/internal/observe"
	"github.com/mangoroad/haggle/internal/persona"
	"github.com/mangoroad/haggle/internal/phrase"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusAccepted Status = "accepted"
	StatusTimeout  Status = "timeout"
	StatusAborted  Status = "aborted"
)

// Terminal reports whether no further rounds may be played.
func (s Status) Terminal() bool { return s != StatusActive }

// concessionSweetener raises the counter when the seller signals they are
// coming down, to reward movement without restarting the schedule.
const concessionSweetener = 1.08

// Result is the outcome of one negotiated round.
type Result struct {
	Round   int
	Action  negotiation.Action
	Message string
	Status  Status
}

// Session is one buyer-side negotiation.
type Session struct {
	ID      uuid.UUID
	Persona persona.Persona

	marketPrice float64
	budget      float64
	maxRounds   int

	round   int
	status  Status
	log     *memory.Log
	phraser phrase.Phraser
}

// New validates the persona strategy against the session bounds and
// returns a fresh Active session. A nil phraser gets the deterministic
// template.
func New(p persona.Persona, marketPrice, budget float64, maxRounds int, phraser phrase.Phraser) (*Session, error) {
	if maxRounds < 1 {
		return nil, &negotiation.ConfigError{Field: "max_rounds", Reason: fmt.Sprintf("%d must be >= 1", maxRounds)}
	}
	if marketPrice <= 0 {
		return nil, &negotiation.ConfigError{Field: "market_price", Reason: fmt.Sprintf("%g must be positive", marketPrice)}
	}
	if budget <= 0 {
		return nil, &negotiation.ConfigError{Field: "budget", Reason: fmt.Sprintf("%g must be positive", budget)}
	}
	if err := p.Strategy.Validate(maxRounds); err != nil {
		return nil, err
	}
	return &Session{
		ID:          uuid.New(),
		Persona:     p,
		marketPrice: marketPrice,
		budget:      budget,
		maxRounds:   maxRounds,
		status:      StatusActive,
		log:         memory.New(0),
		phraser:     phraser,
	}, nil
}

// Round returns the number of rounds played so far.
func (s *Session) Round() int { return s.round }

// Status returns the session lifecycle state.
func (s *Session) Status() Status { return s.status }

// Budget returns the buyer's private ceiling.
func (s *Session) Budget() float64 { return s.budget }

// History returns the last n exchange lines, one per row.
func (s *Session) History(n int) string { return s.log.Summary(n) }

// NegotiateMessage parses a free-text seller message and plays the next
// round.
func (s *Session) NegotiateMessage(sellerMessage string) (Result, error) {
	return s.Negotiate(observe.Parse(sellerMessage))
}

// Negotiate plays the next round against the given seller observation.
// The numeric action is finalized before phrasing: a phrasing failure can
// degrade the message but never the price.
func (s *Session) Negotiate(obs observe.Observation) (Result, error) {
	if s.status.Terminal() {
		return Result{}, fmt.Errorf("session %s is %s, no further rounds", s.ID, s.status)
	}
	s.round++

	st := negotiation.State{
		Round:        s.round,
		MaxRounds:    s.maxRounds,
		MarketPrice:  s.marketPrice,
		Budget:       s.budget,
		SellerOffer:  obs.SellerOffer,
		IsFinalOffer: obs.IsFinal,
	}

	action, err := negotiation.Decide(st, s.Persona.Strategy)
	if err != nil {
		// Malformed round input kills the session; no partial state.
		s.status = StatusAborted
		return Result{}, err
	}

	// Reward a signaled concession with a slightly sweeter counter,
	// still under the budget clip. Best-and-final rounds stay as scheduled.
	if action.Kind == negotiation.ActionCounter && obs.Concession && s.round < s.Persona.Strategy.FinalRound {
		sweetened := action.Price * concessionSweetener
		if sweetened > s.budget {
			sweetened = s.budget
		}
		action.Price = sweetened
	}

	switch action.Kind {
	case negotiation.ActionAccept:
		s.status = StatusAccepted
	case negotiation.ActionReject:
		s.status = StatusTimeout
	}

	msg := s.phrase(action)

	s.log.Add(s.round, "seller", obs.Raw, obs.SellerOffer)
	buyerPrice := action.Price
	s.log.Add(s.round, "buyer", msg, &buyerPrice)

	return Result{Round: s.round, Action: action, Message: msg, Status: s.status}, nil
}

func (s *Session) phrase(action negotiation.Action) string {
	if s.phraser == nil {
		return phrase.Template{}.Phrase(action, s.round, s.Persona)
	}
	return s.phraser.Phrase(action, s.round, s.Persona)
}
