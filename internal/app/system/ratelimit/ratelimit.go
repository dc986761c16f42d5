// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration for each key.
// Expired windows are swept until ctx is done.
func New(ctx context.Context, limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
	go l.sweep(ctx, 2*duration)
	return l
}

// Allow records one request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key has left in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.mu.Lock()
			now := l.now()
			for k, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// RemoteAddr host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts per client IP and per login name
// (email or admin username).
type LoginLimiter struct {
	ip    *Limiter
	login *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per login per
// 5 minutes.
func NewLoginLimiter(ctx context.Context) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ctx, 10, time.Minute),
		login: New(ctx, 5, 5*time.Minute),
	}
}

func loginKey(login string) string { return strings.ToLower(strings.TrimSpace(login)) }

// Check records an attempt. When it is refused, reason is a message safe
// to show the user.
func (ll *LoginLimiter) Check(r *http.Request, login string) (allowed bool, reason string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if k := loginKey(login); k != "" && !ll.login.Allow(k) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// Succeeded clears the per-login counter.
func (ll *LoginLimiter) Succeeded(login string) {
	if k := loginKey(login); k != "" {
		ll.login.Reset(k)
	}
}
