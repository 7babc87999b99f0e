// Package api provides the HTTP API for running negotiation sessions.
// GET endpoints are public (read-only observation). POST endpoints create
// sessions and submit offers; /metrics serves Prometheus exposition.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mangoroad/haggle/internal/llm"
	"github.com/mangoroad/haggle/internal/market"
	"github.com/mangoroad/haggle/internal/negotiation"
	"github.com/mangoroad/haggle/internal/observe"
	"github.com/mangoroad/haggle/internal/persistence"
	"github.com/mangoroad/haggle/internal/persona"
	"github.com/mangoroad/haggle/internal/phrase"
	"github.com/mangoroad/haggle/internal/session"
)

// Server serves negotiation sessions over HTTP.
type Server struct {
	Persona   persona.Persona
	LLM       *llm.Client
	DB        *persistence.DB
	Port      int
	MaxRounds int

	started time.Time

	// Sessions are single-threaded per the engine contract; the server
	// serializes concurrent requests to the same session with a
	// per-session lock.
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	sess    *session.Session
	product string
	created time.Time
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	if s.sessions == nil {
		s.sessions = make(map[uuid.UUID]*sessionEntry)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleSessionDetail)
	mux.HandleFunc("POST /api/v1/sessions/{id}/offer", s.handleOffer)
	mux.HandleFunc("GET /api/v1/results", s.handleResults)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	handler := s.Handler()

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "llm", s.LLM.Enabled())

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleStatus reports service health.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := 0
	for _, e := range s.sessions {
		if !e.sess.Status().Terminal() {
			active++
		}
	}
	total := len(s.sessions)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds":  int(time.Since(s.started).Seconds()),
		"persona":         s.Persona.Name,
		"llm_enabled":     s.LLM.Enabled(),
		"sessions_total":  total,
		"sessions_active": active,
	})
}

type createSessionRequest struct {
	Product     string  `json:"product"`
	MarketPrice float64 `json:"market_price"`
	Budget      float64 `json:"budget"`
	MaxRounds   int     `json:"max_rounds"`
	Urgency     float64 `json:"urgency"`
}

// handleCreateSession opens a new negotiation. A known catalog product
// supplies market price and quality adjustment; otherwise market_price is
// required.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := s.Persona
	marketPrice := req.MarketPrice
	if req.Product != "" {
		found := false
		for _, prod := range market.Catalog() {
			if strings.EqualFold(prod.Name, req.Product) {
				marketPrice = prod.MarketPrice
				p.Strategy.QualityAdjustment = market.QualityFactor(prod)
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown product %q", req.Product))
			return
		}
	}
	if req.Urgency > 0 {
		p.Strategy.UrgencyAdjustment = market.UrgencyFactor(req.Urgency)
	}

	maxRounds := req.MaxRounds
	if maxRounds == 0 {
		maxRounds = s.MaxRounds
	}

	sess, err := session.New(p, marketPrice, req.Budget, maxRounds, phrase.NewModel(s.LLM))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	entry := &sessionEntry{sess: sess, product: req.Product, created: time.Now()}
	s.mu.Lock()
	s.sessions[sess.ID] = entry
	s.mu.Unlock()
	mtxActiveSessions.Inc()

	slog.Info("session created", "id", sess.ID, "product", req.Product, "budget", req.Budget)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         sess.ID,
		"status":     sess.Status(),
		"max_rounds": maxRounds,
	})
}

func (s *Server) lookup(r *http.Request) (*sessionEntry, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, fmt.Errorf("invalid session id")
	}
	s.mu.Lock()
	entry, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return entry, nil
}

// handleSessionDetail returns a session snapshot.
func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      entry.sess.ID,
		"product": entry.product,
		"round":   entry.sess.Round(),
		"status":  entry.sess.Status(),
		"history": entry.sess.History(8),
	})
}

type offerRequest struct {
	Message string   `json:"message"`
	Offer   *float64 `json:"offer"`
	IsFinal bool     `json:"is_final"`
}

// handleOffer submits the seller's next offer and returns the buyer's
// action.
func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	entry, err := s.lookup(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var obs observe.Observation
	if req.Message != "" {
		obs = observe.Parse(req.Message)
		if req.Offer != nil {
			obs.SellerOffer = req.Offer
		}
		if req.IsFinal {
			obs.IsFinal = true
		}
	} else {
		obs = observe.Observation{SellerOffer: req.Offer, IsFinal: req.IsFinal}
		if req.Offer != nil {
			obs.Raw = fmt.Sprintf("Offer of ₹%.0f", *req.Offer)
		}
	}

	entry.mu.Lock()
	result, err := entry.sess.Negotiate(obs)
	entry.mu.Unlock()
	if err != nil {
		var protoErr *negotiation.ProtocolError
		if errors.As(err, &protoErr) {
			mtxSessions.WithLabelValues(string(session.StatusAborted)).Inc()
			mtxActiveSessions.Dec()
			writeError(w, http.StatusUnprocessableEntity, protoErr.Error())
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	mtxDecisions.WithLabelValues(result.Action.Kind.String()).Inc()
	if result.Status.Terminal() {
		mtxSessions.WithLabelValues(string(result.Status)).Inc()
		mtxActiveSessions.Dec()
		if result.Status == session.StatusAccepted {
			mtxDealRounds.Observe(float64(result.Round))
			if b := entry.sess.Budget(); b > 0 {
				mtxDealSavings.Observe((b - result.Action.Price) / b)
			}
		}
	}

	resp := map[string]any{
		"round":   result.Round,
		"action":  result.Action.Kind.String(),
		"message": result.Message,
		"status":  result.Status,
	}
	if result.Action.Kind != negotiation.ActionReject {
		resp["price"] = result.Action.Price
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleResults serves recent match outcomes from the store.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "no result store configured")
		return
	}
	records, err := s.DB.RecentMatches(50)
	if err != nil {
		slog.Error("load results", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": records})
}
