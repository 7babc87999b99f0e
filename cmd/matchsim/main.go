// Command matchsim runs buyer-vs-seller negotiation matches: a batch
// product × scenario matrix against the scripted seller, or an
// interactive mode where the operator plays seller on stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mangoroad/haggle/internal/llm"
	"github.com/mangoroad/haggle/internal/market"
	"github.com/mangoroad/haggle/internal/observe"
	"github.com/mangoroad/haggle/internal/persistence"
	"github.com/mangoroad/haggle/internal/persona"
	"github.com/mangoroad/haggle/internal/phrase"
	"github.com/mangoroad/haggle/internal/seller"
	"github.com/mangoroad/haggle/internal/session"
)

const maxRounds = 10

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	personaPath := flag.String("persona", "", "path to persona JSON (default: built-in aggressive buyer)")
	dbPath := flag.String("db", "data/haggle.db", "path to the match result store ('' disables)")
	seed := flag.Int64("seed", 42, "seller temperament seed")
	interactive := flag.Bool("interactive", false, "play seller yourself on stdin")
	flag.Parse()

	_ = godotenv.Load()

	p := persona.Default()
	if *personaPath != "" {
		var err error
		p, err = persona.Load(*personaPath, maxRounds)
		if err != nil {
			slog.Error("failed to load persona", "path", *personaPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("persona ready", "name", p.Name, "style", p.Style)

	// Optional LLM phrasing — decisions never depend on it.
	hfKey := os.Getenv("HF_API_KEY")
	llmClient := llm.NewClient(hfKey, os.Getenv("HF_MODEL_ID"))
	if llmClient.Enabled() {
		slog.Info("LLM phrasing enabled")
	} else {
		slog.Warn("HF_API_KEY not set — phrasing falls back to templates")
	}
	phraser := phrase.NewModel(llmClient)

	if *interactive {
		runInteractive(p, phraser)
		return
	}

	var db *persistence.DB
	if *dbPath != "" {
		os.MkdirAll("data", 0755)
		var err error
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open result store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("result store opened", "path", *dbPath)
	}

	deals, total := 0, 0
	for _, prod := range market.Catalog() {
		for _, sc := range market.Scenarios() {
			budget := prod.MarketPrice * sc.BudgetPct
			sellerMin := prod.MarketPrice * sc.SellerMinPct

			fmt.Printf("\nTest: %s — %s scenario\nBudget: ₹%s | Market: ₹%s\n",
				prod.Name, sc.Name,
				humanize.CommafWithDigits(budget, 0),
				humanize.CommafWithDigits(prod.MarketPrice, 0))

			rec, err := runMatch(p, prod, sc, budget, sellerMin, *seed, phraser)
			if err != nil {
				slog.Error("match aborted", "product", prod.Name, "scenario", sc.Name, "error", err)
				continue
			}
			total++

			if rec.Outcome == string(session.StatusAccepted) {
				deals++
				fmt.Printf("DEAL at ₹%s in %d rounds | Savings: ₹%s\n",
					humanize.CommafWithDigits(rec.FinalPrice, 0), rec.Rounds,
					humanize.CommafWithDigits(rec.Savings, 0))
			} else {
				fmt.Printf("NO DEAL after %d rounds\n", rec.Rounds)
			}

			if db != nil {
				if err := db.SaveMatch(rec); err != nil {
					slog.Error("failed to save match", "error", err)
				}
			}
		}
	}

	if db != nil {
		_ = db.SetMeta("last_run", time.Now().UTC().Format(time.RFC3339))
	}
	fmt.Printf("\n%d/%d matches closed.\n", deals, total)
}

// runMatch plays one full match against the scripted seller and returns
// its outcome record.
func runMatch(p persona.Persona, prod market.Product, sc market.Scenario, budget, sellerMin float64, seed int64, phraser phrase.Phraser) (persistence.MatchRecord, error) {
	// Derive fair-price multipliers from the goods and the seller's tone.
	buyer := p
	buyer.Strategy.QualityAdjustment = market.QualityFactor(prod)

	mock := seller.NewScripted(sellerMin, seed)
	_, sellerMsg := mock.OpeningPrice(prod)
	buyer.Strategy.UrgencyAdjustment = market.UrgencyFactor(observe.Parse(sellerMsg).Urgency)

	sess, err := session.New(buyer, prod.MarketPrice, budget, maxRounds, phraser)
	if err != nil {
		return persistence.MatchRecord{}, err
	}

	rec := persistence.MatchRecord{
		ID:          sess.ID.String(),
		PlayedAt:    time.Now().UTC(),
		Product:     prod.Name,
		Scenario:    sc.Name,
		MarketPrice: prod.MarketPrice,
		Budget:      budget,
	}

	for round := 1; round <= maxRounds; round++ {
		result, err := sess.NegotiateMessage(sellerMsg)
		if err != nil {
			return persistence.MatchRecord{}, err
		}
		slog.Debug("buyer turn", "round", result.Round, "action", result.Action.Kind, "message", result.Message)

		if result.Status == session.StatusAccepted {
			rec.Outcome = string(result.Status)
			rec.FinalPrice = result.Action.Price
			rec.Rounds = result.Round
			rec.Savings = budget - result.Action.Price
			return rec, nil
		}

		var sellerAccepts bool
		_, sellerMsg, sellerAccepts = mock.Respond(result.Action.Price, round)
		if sellerAccepts {
			rec.Outcome = string(session.StatusAccepted)
			rec.FinalPrice = result.Action.Price
			rec.Rounds = result.Round
			rec.Savings = budget - result.Action.Price
			return rec, nil
		}
	}

	// One more exchange past the limit forces the formal timeout reject.
	result, err := sess.NegotiateMessage(sellerMsg)
	if err != nil {
		return persistence.MatchRecord{}, err
	}
	rec.Outcome = string(result.Status)
	rec.Rounds = maxRounds
	return rec, nil
}

// runInteractive lets the operator play seller against the buyer agent.
func runInteractive(p persona.Persona, phraser phrase.Phraser) {
	in := bufio.NewScanner(os.Stdin)
	catalog := market.Catalog()

	fmt.Println("\nSelect a product to negotiate:")
	for i, prod := range catalog {
		fmt.Printf("%d) %s (%s grade, ₹%s market)\n", i+1, prod.Name, prod.QualityGrade,
			humanize.CommafWithDigits(prod.MarketPrice, 0))
	}
	prod := catalog[0]
	fmt.Print("Enter choice: ")
	if in.Scan() {
		if n, err := strconv.Atoi(strings.TrimSpace(in.Text())); err == nil && n >= 1 && n <= len(catalog) {
			prod = catalog[n-1]
		}
	}
	fmt.Printf("\nProduct: %s | Market: ₹%s\n", prod.Name, humanize.CommafWithDigits(prod.MarketPrice, 0))

	var budget float64
	for budget <= 0 {
		fmt.Print("Enter BUYER budget (₹): ")
		if !in.Scan() {
			return
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(in.Text()), ",", ""), 64)
		if err != nil || v <= 0 {
			fmt.Println("Please enter a valid positive number.")
			continue
		}
		budget = v
	}

	buyer := p
	buyer.Strategy.QualityAdjustment = market.QualityFactor(prod)

	sess, err := session.New(buyer, prod.MarketPrice, budget, maxRounds, phraser)
	if err != nil {
		slog.Error("failed to start session", "error", err)
		return
	}

	fmt.Println("\nYou are the SELLER. Enter a numeric offer each round (or 'q' to quit).")
	sellerMsg := fmt.Sprintf("Opening price ₹%s", humanize.CommafWithDigits(prod.MarketPrice*1.5, 0))
	fmt.Printf("Seller (opening): %s\n", sellerMsg)

	for round := 1; round <= maxRounds; round++ {
		result, err := sess.NegotiateMessage(sellerMsg)
		if err != nil {
			slog.Error("session aborted", "error", err)
			return
		}
		fmt.Printf("Buyer (R%d): %s\n", result.Round, result.Message)
		if result.Status == session.StatusAccepted {
			fmt.Printf("Deal closed at ₹%s on round %d (session %s)\n",
				humanize.CommafWithDigits(result.Action.Price, 0), result.Round,
				shortID(sess.ID))
			return
		}

		// An offer-less message past round 1 is a protocol error, so keep
		// prompting until the seller names a number.
		for {
			fmt.Print("Your next SELLER offer (₹ number), or 'q' to quit: ")
			if !in.Scan() {
				return
			}
			input := strings.TrimSpace(in.Text())
			if input == "q" || input == "quit" || input == "exit" {
				fmt.Println("Exiting without a deal.")
				return
			}
			if v, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", ""), 64); err == nil && v > 0 {
				sellerMsg = fmt.Sprintf("I can sell for ₹%s", humanize.CommafWithDigits(v, 0))
				break
			}
			fmt.Println("Please enter a valid positive price.")
		}
	}

	fmt.Printf("Reached %d rounds without agreement. No deal.\n", maxRounds)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
