// Package session supplies the bearer credential attached to every ledger
// service call.
package session

import "strings"

// Guard reports whether a usable credential is configured and hands it to
// the transport layer. The core never inspects the token beyond presence.
type Guard interface {
	IsAuthenticated() bool
	Token() string
}

// StaticGuard is a Guard backed by a fixed token from configuration.
type StaticGuard struct {
	token string
}

// NewStaticGuard wraps the configured token, trimming surrounding
// whitespace.
func NewStaticGuard(token string) *StaticGuard {
	return &StaticGuard{token: strings.TrimSpace(token)}
}

// IsAuthenticated reports whether a token is present.
func (g *StaticGuard) IsAuthenticated() bool {
	return g.token != ""
}

// Token returns the configured token.
func (g *StaticGuard) Token() string {
	return g.token
}
