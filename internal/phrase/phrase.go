// Package phrase turns numeric actions into seller-facing messages. The
// decision path never depends on phrasing: a Phraser is consulted after
// the action is final, and any failure degrades to the deterministic
// template.
package phrase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mangoroad/haggle/internal/llm"
	"github.com/mangoroad/haggle/internal/negotiation"
	"github.com/mangoroad/haggle/internal/persona"
)

// maxMessageLen caps phrased output so a rambling model cannot flood the
// transcript.
const maxMessageLen = 500

// Phraser renders a finalized action as a message in the persona's voice.
type Phraser interface {
	Phrase(action negotiation.Action, round int, p persona.Persona) string
}

// Template is the deterministic fallback phraser. Same inputs always
// produce the same message.
type Template struct{}

// Phrase builds a message from fixed templates and the persona's
// catchphrases.
func (Template) Phrase(action negotiation.Action, round int, p persona.Persona) string {
	price := "₹" + humanize.CommafWithDigits(action.Price, 0)

	switch action.Kind {
	case negotiation.ActionAccept:
		return fmt.Sprintf("Done at %s. Seal it.", price)
	case negotiation.ActionReject:
		return "We're out of rounds. No deal."
	default:
	}

	catch := p.Catchphrase(round)
	if round == 1 {
		msg := fmt.Sprintf("My anchor is %s.", price)
		if catch != "" {
			msg += " " + catch
		}
		return msg
	}
	msg := fmt.Sprintf("I can do %s.", price)
	if catch != "" {
		msg = catch + " " + msg
	}
	return msg
}

// Model phrases through a hosted language model, keeping the template
// output as both the prompt seed and the fallback. Failures are logged
// and absorbed — the caller always gets a message.
type Model struct {
	Client   *llm.Client
	Fallback Template
}

// NewModel wraps an LLM client; a nil or disabled client yields a phraser
// that behaves exactly like Template.
func NewModel(client *llm.Client) *Model {
	return &Model{Client: client}
}

// Phrase rewrites the templated message in the persona's voice. The
// numeric content of the action is already final and the rewrite is
// instructed to keep numbers intact.
func (m *Model) Phrase(action negotiation.Action, round int, p persona.Persona) string {
	raw := m.Fallback.Phrase(action, round, p)
	if m == nil || !m.Client.Enabled() {
		return raw
	}

	prompt := fmt.Sprintf(
		"You are %s, a %s buyer (traits: %s).\n"+
			"Rewrite as a concise, confident buyer line, same meaning, keep numbers intact:\n---\n%s\n---",
		p.Name, p.Style, strings.Join(p.Traits, ", "), raw,
	)

	out, err := m.Client.Generate(prompt, 80, 0.4)
	if err != nil {
		slog.Info("phrasing degraded to template", "round", round, "error", err)
		return raw
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return raw
	}
	if runes := []rune(out); len(runes) > maxMessageLen {
		out = string(runes[:maxMessageLen])
	}
	return out
}
