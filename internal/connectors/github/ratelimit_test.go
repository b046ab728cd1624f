package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiter(t *testing.T) {
	t.Run("creates rate limiter with defaults", func(t *testing.T) {
		rl := NewRateLimiter()

		require.NotNil(t, rl)
		assert.Equal(t, GitHubRateLimit, rl.Limit())
		assert.Equal(t, GitHubRateLimit, rl.Remaining())
		assert.True(t, rl.ResetTime().IsZero())
	})

	t.Run("updates from response headers", func(t *testing.T) {
		rl := NewRateLimiter()
		resetTime := time.Now().Add(1 * time.Hour).Unix()

		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "100")
		resp.Header.Set(HeaderRateLimit, "5000")
		resp.Header.Set(HeaderRateReset, strconv.FormatInt(resetTime, 10))

		rl.UpdateFromResponse(resp)

		assert.Equal(t, 100, rl.Remaining())
		assert.Equal(t, 5000, rl.Limit())
		assert.Equal(t, resetTime, rl.ResetTime().Unix())
	})

	t.Run("ignores malformed headers and nil responses", func(t *testing.T) {
		rl := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "lots")

		rl.UpdateFromResponse(resp)
		rl.UpdateFromResponse(nil)

		assert.Equal(t, GitHubRateLimit, rl.Remaining())
	})

	t.Run("wait respects context cancellation", func(t *testing.T) {
		rl := NewRateLimiter()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, rl.Wait(ctx))
	})

	t.Run("waits for reset when quota is nearly exhausted", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf)
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "0")
		resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		rl.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("unauthenticated quota keeps a proportional reserve", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf)
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateLimit, "60")
		resp.Header.Set(HeaderRateRemaining, "59")
		resp.Header.Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
		rl.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, rl.Wait(ctx))

		resp.Header.Set(HeaderRateRemaining, "5")
		rl.UpdateFromResponse(resp)

		ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel2()
		assert.ErrorIs(t, rl.Wait(ctx2), context.DeadlineExceeded)
	})

	t.Run("unlimited rate does not block", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf)
		for i := 0; i < 100; i++ {
			require.NoError(t, rl.Wait(context.Background()))
		}
	})
}
