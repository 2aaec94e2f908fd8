package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Response headers mirrored on every gated endpoint.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// Result is the outcome of one rate limit check. On rejection RetryAfter
// carries the remainder of the window, never just a boolean.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a per-client request gate. The counter resets entirely when the
// window expires rather than sliding, which trades accuracy for simplicity.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	done    chan struct{}
	now     func() time.Time
}

const sweepInterval = 5 * time.Minute

func NewLimiter() *Limiter {
	limiter := &Limiter{
		windows: make(map[string]*window),
		done:    make(chan struct{}),
		now:     time.Now,
	}

	go limiter.sweep()

	return limiter
}

// Check counts one request for clientID against max requests per windowSize.
func (l *Limiter) Check(clientID string, max int, windowSize time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.windows[clientID]
	if !ok || now.After(win.resetAt) {
		win = &window{resetAt: now.Add(windowSize)}
		l.windows[clientID] = win
	}

	if win.count >= max {
		return Result{
			Allowed:    false,
			Limit:      max,
			Remaining:  0,
			ResetAt:    win.resetAt,
			RetryAfter: win.resetAt.Sub(now),
		}
	}

	win.count++

	return Result{
		Allowed:   true,
		Limit:     max,
		Remaining: max - win.count,
		ResetAt:   win.resetAt,
	}
}

func (l *Limiter) Close() {
	close(l.done)
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.dropExpired()
		}
	}
}

func (l *Limiter) dropExpired() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for clientID, win := range l.windows {
		if now.After(win.resetAt) {
			delete(l.windows, clientID)
		}
	}
}

// ClientID derives a limiter key from forwarded-IP headers, falling back to
// the socket address and finally a shared "unknown" bucket.
func ClientID(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if realIP := req.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil && host != "" {
		return host
	}

	return "unknown"
}
