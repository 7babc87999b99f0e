package negotiation

import "fmt"

// ConfigError reports malformed strategy parameters. Fatal before any
// session starts; no rounds are processed after one is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// ProtocolError reports a malformed round input from the harness, such as
// a missing seller offer after round 1. Fatal for the session; carries
// the round and field so the caller can diagnose the exchange.
type ProtocolError struct {
	Round  int
	Field  string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error at round %d: %s: %s", e.Round, e.Field, e.Reason)
}
