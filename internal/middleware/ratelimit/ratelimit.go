// Package ratelimit throttles clients with a fixed one-minute window.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

type client struct {
	windowStart time.Time
	requests    int
}

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	// StaleAfter drops clients idle for this long during cleanup.
	StaleAfter time.Duration
	// Methods limits only these HTTP methods. Empty means all.
	Methods []string
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		StaleAfter:        10 * time.Minute,
		Methods:           []string{http.MethodPost},
	}
}

// Limiter counts requests per client key.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	stale   time.Duration
	methods map[string]bool
	now     func() time.Time
	hits    atomic.Int64
}

func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = def.StaleAfter
	}
	methods := make(map[string]bool, len(config.Methods))
	for _, m := range config.Methods {
		methods[m] = true
	}
	return &Limiter{
		clients: make(map[string]*client),
		limit:   config.RequestsPerMinute,
		stale:   config.StaleAfter,
		methods: methods,
		now:     time.Now,
	}
}

// Allow records a request from key and reports whether it is within the
// limit. When it is not, retryAfter is the time until the window resets.
func (l *Limiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, exists := l.clients[key]
	if !exists || now.Sub(c.windowStart) >= window {
		l.clients[key] = &client{windowStart: now, requests: 1}
		return true, 0
	}

	c.requests++
	if c.requests <= l.limit {
		return true, 0
	}
	l.hits.Add(1)
	return false, window - now.Sub(c.windowStart)
}

// Cleanup forgets clients whose window started more than StaleAfter ago and
// returns how many were dropped.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.stale)
	dropped := 0
	for key, c := range l.clients {
		if c.windowStart.Before(cutoff) {
			delete(l.clients, key)
			dropped++
		}
	}
	return dropped
}

// Run calls Cleanup every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Rejected returns how many requests were turned away.
func (l *Limiter) Rejected() int64 {
	return l.hits.Load()
}

// Middleware rejects over-limit requests with 429. onLimit, when set,
// writes the response body instead of the plain-text default.
func (l *Limiter) Middleware(key func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(l.methods) > 0 && !l.methods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			ok, retry := l.Allow(key(r))
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			secs := int(retry.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			if onLimit != nil {
				onLimit(w, r)
				return
			}
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		})
	}
}
