package driven

import "context"

// TokenProvider supplies the credential for authenticated API calls.
// The pipeline treats the token as opaque and only passes it through.
type TokenProvider interface {
	// GetToken returns an access token.
	// Returns empty string when no credential is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if a credential is available.
	IsAuthenticated() bool
}
