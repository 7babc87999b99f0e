// Command haggled serves the buyer agent over HTTP: create a session,
// submit seller offers round by round, and read recent match outcomes.
// Prometheus metrics are exposed at /metrics.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mangoroad/haggle/internal/api"
	"github.com/mangoroad/haggle/internal/llm"
	"github.com/mangoroad/haggle/internal/persistence"
	"github.com/mangoroad/haggle/internal/persona"
)

const defaultMaxRounds = 10

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	port := 8080
	if v := os.Getenv("HAGGLED_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid HAGGLED_PORT", "value", v)
			os.Exit(1)
		}
		port = p
	}

	p := persona.Default()
	if path := os.Getenv("HAGGLE_PERSONA"); path != "" {
		var err error
		p, err = persona.Load(path, defaultMaxRounds)
		if err != nil {
			slog.Error("failed to load persona", "path", path, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("persona ready", "name", p.Name, "style", p.Style)

	var db *persistence.DB
	if path := os.Getenv("HAGGLE_DB"); path != "" {
		var err error
		db, err = persistence.Open(path)
		if err != nil {
			slog.Error("failed to open result store", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("result store opened", "path", path)
	} else {
		slog.Warn("HAGGLE_DB not set — /api/v1/results disabled")
	}

	llmClient := llm.NewClient(os.Getenv("HF_API_KEY"), os.Getenv("HF_MODEL_ID"))
	if llmClient.Enabled() {
		slog.Info("LLM phrasing enabled")
	} else {
		slog.Warn("HF_API_KEY not set — phrasing falls back to templates")
	}

	server := &api.Server{
		Persona:   p,
		LLM:       llmClient,
		DB:        db,
		Port:      port,
		MaxRounds: defaultMaxRounds,
	}
	server.Start()

	fmt.Printf("haggled listening on http://localhost:%d/api/v1/status\n", port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}
