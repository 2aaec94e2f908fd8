package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func newTestLimiter(now func() time.Time) *Limiter {
	limiter := NewLimiter()
	limiter.now = now
	return limiter
}

func TestLimiter_Check_AllowsUpToMax(t *testing.T) {
	current := time.Now()
	limiter := newTestLimiter(func() time.Time { return current })
	defer limiter.Close()

	for i := 0; i < 5; i++ {
		result := limiter.Check("client-a", 5, time.Minute)
		if !result.Allowed {
			t.Fatalf("Expected request %d of 5 to be allowed", i+1)
		}
		if result.Remaining != 5-(i+1) {
			t.Errorf("Expected remaining=%d after request %d, got %d", 5-(i+1), i+1, result.Remaining)
		}
	}
}

func TestLimiter_Check_RejectsOverMax(t *testing.T) {
	current := time.Now()
	limiter := newTestLimiter(func() time.Time { return current })
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		limiter.Check("client-a", 3, time.Minute)
	}

	result := limiter.Check("client-a", 3, time.Minute)
	if result.Allowed {
		t.Fatal("Expected the request over the limit to be rejected")
	}
	if result.Remaining != 0 {
		t.Errorf("Expected remaining=0 on rejection, got %d", result.Remaining)
	}
	if result.RetryAfter <= 0 {
		t.Errorf("Expected a positive RetryAfter on rejection, got %v", result.RetryAfter)
	}
	if result.RetryAfter > time.Minute {
		t.Errorf("Expected RetryAfter within the window, got %v", result.RetryAfter)
	}
}

func TestLimiter_Check_WindowResets(t *testing.T) {
	current := time.Now()
	limiter := newTestLimiter(func() time.Time { return current })
	defer limiter.Close()

	for i := 0; i < 2; i++ {
		limiter.Check("client-a", 2, time.Minute)
	}
	if result := limiter.Check("client-a", 2, time.Minute); result.Allowed {
		t.Fatal("Expected the limiter to be saturated before the window expires")
	}

	current = current.Add(61 * time.Second)

	result := limiter.Check("client-a", 2, time.Minute)
	if !result.Allowed {
		t.Fatal("Expected a fresh window after the previous one expired")
	}
	if result.Remaining != 1 {
		t.Errorf("Expected remaining=1 in the fresh window, got %d", result.Remaining)
	}
}

func TestLimiter_Check_ClientsAreIndependent(t *testing.T) {
	current := time.Now()
	limiter := newTestLimiter(func() time.Time { return current })
	defer limiter.Close()

	limiter.Check("client-a", 1, time.Minute)
	if result := limiter.Check("client-a", 1, time.Minute); result.Allowed {
		t.Fatal("Expected client-a to be saturated")
	}

	if result := limiter.Check("client-b", 1, time.Minute); !result.Allowed {
		t.Error("Expected client-b to have its own window")
	}
}

func TestClientID_PrefersForwardedFor(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")

	if id := ClientID(req); id != "203.0.113.9" {
		t.Errorf("Expected the first forwarded address, got '%s'", id)
	}
}

func TestClientID_FallsBackToRealIP(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	req.Header.Set("X-Real-IP", "198.51.100.2")

	if id := ClientID(req); id != "198.51.100.2" {
		t.Errorf("Expected the X-Real-IP address, got '%s'", id)
	}
}

func TestClientID_FallsBackToRemoteAddr(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.RemoteAddr = "10.0.0.1:4321"

	if id := ClientID(req); id != "10.0.0.1" {
		t.Errorf("Expected the socket host, got '%s'", id)
	}
}

func TestClientID_UnknownWhenNothingAvailable(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/chat", nil)

	if id := ClientID(req); id != "unknown" {
		t.Errorf("Expected the shared unknown bucket, got '%s'", id)
	}
}
