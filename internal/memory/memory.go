// Package memory keeps the rolling in-session exchange log: who said what
// at which price, bounded so long sessions cannot grow without limit.
// History is process-local and dies with the session.
package memory

import (
	"fmt"
	"strings"
)

const defaultMaxLen = 200

// Entry is one logged exchange line.
type Entry struct {
	Round   int
	Role    string
	Message string
	Price   *float64
}

// Log is a bounded, append-only exchange history.
type Log struct {
	maxLen  int
	entries []Entry
}

// New creates a log bounded to maxLen entries; maxLen <= 0 uses the
// default bound.
func New(maxLen int) *Log {
	if maxLen <= 0 {
		maxLen = defaultMaxLen
	}
	return &Log{maxLen: maxLen}
}

// Add appends an exchange, evicting the oldest entry past the bound.
func (l *Log) Add(round int, role, message string, price *float64) {
	l.entries = append(l.entries, Entry{Round: round, Role: role, Message: message, Price: price})
	if len(l.entries) > l.maxLen {
		l.entries = l.entries[1:]
	}
}

// Len returns the number of retained entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the retained history.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Summary renders the last n exchanges as one line per entry.
func (l *Log) Summary(n int) string {
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for i, e := range l.entries[start:] {
		if i > 0 {
			b.WriteByte('\n')
		}
		price := "-"
		if e.Price != nil {
			price = fmt.Sprintf("₹%.0f", *e.Price)
		}
		fmt.Fprintf(&b, "R%d %s: %s (%s)", e.Round, e.Role, e.Message, price)
	}
	return b.String()
}
