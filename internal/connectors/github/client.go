package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the default number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay = 30 * time.Second

	// perPage is the page size for list calls.
	perPage = 100
)

// Option configures a Client.
type Option func(*Client)

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryDelay sets the initial backoff delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithBaseURL points the client at a different API root, such as a
// GitHub Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// Client wraps the go-github client with rate limiting and retries.
type Client struct {
	mu            sync.Mutex
	gh            *gh.Client
	httpClient    *http.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	retries       int
	retryDelay    time.Duration
	baseURL       string
}

// NewClient creates a new GitHub API client with a token provider.
// A nil provider, or one returning an empty token, makes unauthenticated calls.
func NewClient(tokenProvider driven.TokenProvider, opts ...Option) *Client {
	c := &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
		retries:       MaxRetries,
		retryDelay:    RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, opts ...Option) *Client {
	c := NewClient(nil, opts...)
	c.httpClient = httpClient
	return c
}

// ensureClient initialises the go-github client if not already done.
// This is called lazily so the token is only requested when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gh != nil {
		return nil
	}

	httpClient := c.httpClient
	if httpClient == nil {
		token := ""
		if c.tokenProvider != nil {
			var err error
			token, err = c.tokenProvider.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("get token: %w", err)
			}
		}
		if token != "" {
			ts := oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: token},
			)
			httpClient = oauth2.NewClient(context.Background(), ts)
		} else {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if c.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(c.baseURL, "/") + "/")
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = u
	}
	c.gh = client
	return nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// do runs call with rate limiting and retries transient failures with
// exponential backoff.
func (c *Client) do(ctx context.Context, operation string, call func() (*gh.Response, error)) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}

	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := call()
		c.updateRateLimitFromResponse(resp)
		if err == nil {
			return nil
		}

		wrapped := c.wrapError(err, operation)
		if attempt >= c.retries || !IsTransient(wrapped) {
			return wrapped
		}

		wait := delay
		var rlErr *RateLimitError
		if errors.As(wrapped, &rlErr) {
			if until := time.Until(rlErr.ResetAt); until > wait && until <= MaxRetryDelay {
				wait = until
			}
		}
		logger.Debug("github: %s failed (attempt %d/%d), retrying in %s: %v",
			operation, attempt+1, c.retries+1, wait, wrapped)
		if err := sleep(ctx, wait); err != nil {
			return err
		}

		delay *= 2
		if delay > MaxRetryDelay {
			delay = MaxRetryDelay
		}
	}
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	var repository *gh.Repository
	err := c.do(ctx, "get repo", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		repository, resp, err = c.gh.Repositories.Get(ctx, owner, repo)
		return resp, err
	})
	return repository, err
}

// GetTree fetches the entire tree for a repository recursively.
func (c *Client) GetTree(ctx context.Context, owner, repo, sha string) (*gh.Tree, error) {
	var tree *gh.Tree
	err := c.do(ctx, "get tree", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		tree, resp, err = c.gh.Git.GetTree(ctx, owner, repo, sha, true)
		return resp, err
	})
	return tree, err
}

// GetBlob fetches a blob by its SHA and decodes its content.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) ([]byte, error) {
	var blob *gh.Blob
	err := c.do(ctx, "get blob", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		blob, resp, err = c.gh.Git.GetBlob(ctx, owner, repo, sha)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	if blob.GetEncoding() == "base64" {
		content := strings.ReplaceAll(blob.GetContent(), "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return decoded, nil
	}
	return []byte(blob.GetContent()), nil
}

// GetFileContent fetches the content of a file at ref through the Contents API.
// Files above the inline limit are downloaded from their raw URL.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var content *gh.RepositoryContent
	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	err := c.do(ctx, "get contents", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		content, _, resp, err = c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrNotAFile
	}

	if content.GetEncoding() == "none" {
		return c.DownloadContents(ctx, owner, repo, path, ref)
	}

	decoded, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return []byte(decoded), nil
}

// DownloadContents downloads a file of any size.
func (c *Client) DownloadContents(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var data []byte
	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	err := c.do(ctx, "download contents", func() (*gh.Response, error) {
		rc, resp, err := c.gh.Repositories.DownloadContents(ctx, owner, repo, path, opts)
		if err != nil {
			return resp, err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		return resp, err
	})
	return data, err
}

// ListOwnerRepos lists every repository of an organisation. When no
// organisation has that name, the user's public repositories are listed.
func (c *Client) ListOwnerRepos(ctx context.Context, owner string) ([]*gh.Repository, error) {
	repos, err := c.listOrgRepos(ctx, owner)
	if err == nil || !IsNotFound(err) {
		return repos, err
	}
	return c.listUserRepos(ctx, owner)
}

func (c *Client) listOrgRepos(ctx context.Context, org string) ([]*gh.Repository, error) {
	var all []*gh.Repository
	opts := &gh.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		var page []*gh.Repository
		var next int
		err := c.do(ctx, "list org repos", func() (*gh.Response, error) {
			repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
			page = repos
			if resp != nil {
				next = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if next == 0 {
			return all, nil
		}
		opts.Page = next
	}
}

func (c *Client) listUserRepos(ctx context.Context, user string) ([]*gh.Repository, error) {
	var all []*gh.Repository
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		var page []*gh.Repository
		var next int
		err := c.do(ctx, "list user repos", func() (*gh.Response, error) {
			repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
			page = repos
			if resp != nil {
				next = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if next == 0 {
			return all, nil
		}
		opts.Page = next
	}
}

// ValidateCredentials checks the configured token is accepted by fetching
// the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	return c.do(ctx, "validate credentials", func() (*gh.Response, error) {
		_, resp, err := c.gh.Users.Get(ctx, "")
		return resp, err
	})
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now()
		if abuseErr.RetryAfter != nil {
			resetAt = resetAt.Add(*abuseErr.RetryAfter)
		}
		return &RateLimitError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
