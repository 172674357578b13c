package graph

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the proactive throttle rate. Graph throttles
	// per-app per-mailbox; four requests a second stays comfortably
	// under every documented workload limit.
	ProactiveRate = 4

	// ProactiveBurst allows short bursts before throttling kicks in.
	ProactiveBurst = 4

	// HeaderRetryAfter is the throttling backoff header (seconds).
	HeaderRetryAfter = "Retry-After"

	// HeaderRateRemaining is the remaining-quota header some Graph
	// workloads return.
	HeaderRateRemaining = "RateLimit-Remaining"

	// HeaderRateReset is the quota reset header (seconds from now).
	HeaderRateReset = "RateLimit-Reset"
)

// RateLimiter implements dual-strategy rate limiting for the Graph API:
// a token bucket throttles proactively, and 429 responses push a
// retry-at time that later requests wait out.
type RateLimiter struct {
	mu        sync.Mutex
	retryAt   time.Time
	remaining int
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: -1, // Unknown until a response reports it
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), ProactiveBurst),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}
	return nil
}

// UpdateFromResponse records throttling state from response headers.
// A 429 sets the retry-at time from Retry-After.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return
	}
	delay := 5 * time.Second
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			delay = time.Duration(seconds) * time.Second
		}
	}
	r.retryAt = time.Now().Add(delay)
}

// CheckThrottled returns a RateLimitError when the response was
// throttled, nil otherwise. State is updated either way.
func (r *RateLimiter) CheckThrottled(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		r.mu.Lock()
		retryAt := r.retryAt
		r.mu.Unlock()
		return &RateLimitError{RetryAt: retryAt}
	}
	return nil
}

// RetryAt returns the time the current throttle window ends.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}

// Remaining returns the last reported remaining quota, -1 when the
// server never reported one.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}
