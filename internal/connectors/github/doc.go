// Package github implements the remote source client for GitHub.
//
// A source is either a single repository ("owner/repo" or a github.com URL)
// or an organisation (or user) name. Listing a repository takes one call to
// the recursive Trees API on the default branch; listing an organisation
// lists its active repositories and walks each one.
//
// # Retrieval
//
// File content is fetched through the Git Data API when the descriptor
// carries a blob SHA, and through the Contents API at the listed ref
// otherwise. Files above the Contents API inline limit are downloaded
// through the raw download URL.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits requests to approximately
//     1.2 requests per second, staying under the 5,000/hour limit.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset are
//     tracked. When the quota is nearly exhausted, calls wait for the reset.
//
// # Error Handling
//
// API failures surface as [*APIError] and rate limiting as [*RateLimitError].
// Transient failures (5xx, 429, rate limiting, transport errors) are retried
// with exponential backoff up to the configured number of retries. Other
// client errors are returned immediately.
//
// # Authentication
//
// A token provider supplies a personal access token. Without a token the
// client makes unauthenticated requests, which GitHub limits to 60 per hour.
package github
