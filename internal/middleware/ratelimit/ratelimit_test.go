package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(Config{RequestsPerMinute: limit})
	l.now = c.now
	return l, c
}

func TestAllow_WindowResets(t *testing.T) {
	l, c := newTestLimiter(2)

	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.True(t, ok)

	c.advance(20 * time.Second)
	ok, retry := l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "clients are independent")

	c.advance(40 * time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, int64(1), l.Rejected())
}

func TestCleanup(t *testing.T) {
	l, c := newTestLimiter(5)
	l.Allow("old")
	c.advance(11 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.ActiveClients())
}

func TestNewLimiter_Defaults(t *testing.T) {
	l := NewLimiter(Config{})
	assert.Equal(t, 60, l.limit)
	assert.Equal(t, 10*time.Minute, l.stale)
}

func TestMiddleware_OnlyConfiguredMethods(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1, Methods: []string{http.MethodPost}})
	h := l.Middleware(func(*http.Request) string { return "ip" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/settings", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/settings", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMiddleware_CustomResponse(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1})
	h := l.Middleware(func(*http.Request) string { return "ip" }, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"slow down"}`, rec.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
