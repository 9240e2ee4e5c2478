package gcp

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ServiceType identifies a Google API service for rate limiting purposes.
type ServiceType string

const (
	// ServiceStorage is the Cloud Storage JSON API.
	ServiceStorage ServiceType = "storage"
	// ServiceSpeech is the Speech-to-Text API.
	ServiceSpeech ServiceType = "speech"
	// ServiceVideo is the Video Intelligence API.
	ServiceVideo ServiceType = "videointelligence"
	// ServiceVertex is the Vertex AI API.
	ServiceVertex ServiceType = "aiplatform"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each Google service.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceStorage: {RequestsPerSecond: 20.0, BurstSize: 20},
	ServiceSpeech:  {RequestsPerSecond: 5.0, BurstSize: 5},
	ServiceVideo:   {RequestsPerSecond: 2.0, BurstSize: 2}, // polling included
	ServiceVertex:  {RequestsPerSecond: 5.0, BurstSize: 5},
}

// defaultRetryAfter is used when a 429 carries no Retry-After hint.
const defaultRetryAfter = 30 * time.Second

// RateLimiter provides rate limiting for Google API requests.
// It uses a token bucket with an additional backoff window after a 429.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service ServiceType
}

// NewRateLimiter creates a rate limiter for service. A positive
// requestsPerSecond overrides the default rate and burst.
func NewRateLimiter(service ServiceType, requestsPerSecond int) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	if requestsPerSecond > 0 && float64(requestsPerSecond) < cfg.RequestsPerSecond {
		cfg = RateLimitConfig{RequestsPerSecond: float64(requestsPerSecond), BurstSize: requestsPerSecond}
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		service: service,
	}
}

// Service returns the service this limiter guards.
func (r *RateLimiter) Service() ServiceType {
	return r.service
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		timer := time.NewTimer(time.Until(retryAt))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff window after a 429 response.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	r.retryAt = time.Now().Add(retryAfter)
}

// Allow reports whether a request can be made immediately.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}

// Call waits for the limiter, runs fn and records a backoff if fn reports
// rate limiting. Errors are classified with WrapError. A nil limiter only
// classifies.
func Call[T any](ctx context.Context, r *RateLimiter, fn func() (T, error)) (T, error) {
	var zero T
	if r != nil {
		if err := r.Wait(ctx); err != nil {
			return zero, err
		}
	}

	result, err := fn()
	if err != nil {
		if r != nil && IsRateLimited(err) {
			r.RecordRateLimitError(RetryAfter(err))
		}
		return zero, WrapError(err)
	}
	return result, nil
}
