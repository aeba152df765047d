package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/config"
)

// fakeClock is a manually advanced clock for deterministic refill.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/api/plan", http.MethodPost)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/api/plan", http.MethodPost)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
	assert.True(t, info.ResetTime.After(l.now()))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 2})

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("c", "/api/plan", http.MethodPost)
		require.True(t, allowed)
	}
	allowed, info := l.Allow("c", "/api/plan", http.MethodPost)
	require.False(t, allowed)
	assert.Equal(t, time.Second, info.RetryAfter)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/api/plan", http.MethodPost)
	assert.True(t, allowed)

	allowed, _ = l.Allow("c", "/api/plan", http.MethodPost)
	assert.False(t, allowed)
}

func TestLimiter_DeniedRequestsDoNotConsume(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 1})

	allowed, _ := l.Allow("c", "/x", http.MethodGet)
	require.True(t, allowed)
	for i := 0; i < 5; i++ {
		allowed, _ = l.Allow("c", "/x", http.MethodGet)
		require.False(t, allowed)
	}

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/x", http.MethodGet)
	assert.True(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("127.0.0.1", "/api/plan", http.MethodPost)
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/api/plan", http.MethodPost)
		assert.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	// /api/analyze has burst 5
	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/api/analyze", http.MethodPost)
		require.True(t, allowed)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := l.Allow("c", "/api/analyze", http.MethodPost)
	assert.False(t, allowed)

	// Other endpoints keep their own budget
	allowed, info := l.Allow("c", "/api/plan", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	// Other clients are unaffected
	allowed, _ = l.Allow("d", "/api/analyze", http.MethodPost)
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("c", "/health", http.MethodGet)
		require.True(t, allowed)
		allowed, _ = l.Allow("c", "/metrics", http.MethodGet)
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/api/plan", http.MethodPost); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowedCount.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/api/plan", http.MethodPost)
	}
	clock.Advance(30 * time.Minute)
	l.Allow("client-0", "/api/plan", http.MethodPost)
	clock.Advance(45 * time.Minute)

	l.evictIdle(clock.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "client-0:/api/plan:POST")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("c", "/api/plan", http.MethodPost)
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 120,
		Burst:             20,
		Whitelist:         []string{"10.0.0.1"},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 120, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, 20, cfg.DefaultBurst)
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/api/analyze", http.MethodPost, 30, false},
		{"prefix", "/api/unlock/verify", http.MethodPost, 10, false},
		{"method mismatch", "/api/analyze", http.MethodGet, 0, true},
		{"no match", "/api/plan", http.MethodPost, 0, true},
		{"health", "/health", http.MethodGet, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}
