package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Selector implements the TokenProvider interface.
var _ driven.TokenProvider = (*Selector)(nil)

// Selector delegates to a provider chosen after start-up, once command-line
// flags are known. Until Use is called it delegates to the fallback.
type Selector struct {
	mu       sync.RWMutex
	provider driven.TokenProvider
}

// NewSelector creates a selector delegating to fallback.
func NewSelector(fallback driven.TokenProvider) *Selector {
	return &Selector{provider: fallback}
}

// Use selects the provider for an explicit token or anonymous access.
// Anonymous access wins over a token. With neither, the fallback stays.
func (s *Selector) Use(token string, anonymous bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case anonymous:
		s.provider = NewNullTokenProvider()
	case strings.TrimSpace(token) != "":
		s.provider = NewStaticTokenProvider(strings.TrimSpace(token))
	}
}

// Provider returns the selected provider.
func (s *Selector) Provider() driven.TokenProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// GetToken returns the selected provider's token.
func (s *Selector) GetToken(ctx context.Context) (string, error) {
	return s.Provider().GetToken(ctx)
}

// IsAuthenticated reports whether the selected provider has a credential.
func (s *Selector) IsAuthenticated() bool {
	return s.Provider().IsAuthenticated()
}
