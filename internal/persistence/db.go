// Package persistence provides SQLite-based storage of match outcomes.
// Only summaries are written — per-message negotiation history never
// leaves the session.
package persistence

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for match outcome storage.
type DB struct {
	conn *sqlx.DB
}

// MatchRecord is one finished match.
type MatchRecord struct {
	ID          string    `db:"id" json:"id"`
	PlayedAt    time.Time `db:"played_at" json:"played_at"`
	Product     string    `db:"product" json:"product"`
	Scenario    string    `db:"scenario" json:"scenario"`
	MarketPrice float64   `db:"market_price" json:"market_price"`
	Budget      float64   `db:"budget" json:"budget"`
	Outcome     string    `db:"outcome" json:"outcome"`
	FinalPrice  float64   `db:"final_price" json:"final_price"`
	Rounds      int       `db:"rounds" json:"rounds"`
	Savings     float64   `db:"savings" json:"savings"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		played_at TIMESTAMP NOT NULL,
		product TEXT NOT NULL,
		scenario TEXT NOT NULL,
		market_price REAL NOT NULL,
		budget REAL NOT NULL,
		outcome TEXT NOT NULL,
		final_price REAL NOT NULL,
		rounds INTEGER NOT NULL,
		savings REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS store_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_played_at ON matches(played_at);
	CREATE INDEX IF NOT EXISTS idx_matches_outcome ON matches(outcome);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMatch inserts one finished match.
func (db *DB) SaveMatch(m MatchRecord) error {
	_, err := db.conn.NamedExec(`
		INSERT INTO matches (id, played_at, product, scenario, market_price, budget, outcome, final_price, rounds, savings)
		VALUES (:id, :played_at, :product, :scenario, :market_price, :budget, :outcome, :final_price, :rounds, :savings)`,
		m)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

// RecentMatches returns the most recent matches, newest first.
func (db *DB) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []MatchRecord
	err := db.conn.Select(&out, `
		SELECT id, played_at, product, scenario, market_price, budget, outcome, final_price, rounds, savings
		FROM matches ORDER BY played_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	return out, nil
}

// GetMeta reads a metadata value by key.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM store_meta WHERE key = ?", key)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMeta writes a metadata key/value pair.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}
