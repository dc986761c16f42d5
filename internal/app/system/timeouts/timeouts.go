// Package timeouts holds the deadlines handlers put on database and
// upstream calls.
//
//   - Ping: health checks
//   - Short: single-document reads, sign-in lookups
//   - Medium: list queries, dashboards, simple writes
//   - Long: outbound calls (Google Calendar, mail delivery)
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config holds timeout values. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Medium() time.Duration { return Current().Medium }
func Long() time.Duration   { return Current().Long }

// Current returns a copy of the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure overrides the non-zero values in cfg. Call it at startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur.Ping, cfg.Ping)
	merge(&cur.Short, cfg.Short)
	merge(&cur.Medium, cfg.Medium)
	merge(&cur.Long, cfg.Long)
}

func merge(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads CAMPUSHUB_TIMEOUT_{PING,SHORT,MEDIUM,LONG}
// (Go duration strings). Unset or invalid values are skipped. It returns
// how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, e := range []struct {
		key string
		dst *time.Duration
	}{
		{"CAMPUSHUB_TIMEOUT_PING", &cfg.Ping},
		{"CAMPUSHUB_TIMEOUT_SHORT", &cfg.Short},
		{"CAMPUSHUB_TIMEOUT_MEDIUM", &cfg.Medium},
		{"CAMPUSHUB_TIMEOUT_LONG", &cfg.Long},
	} {
		if d, err := time.ParseDuration(os.Getenv(e.key)); err == nil && d > 0 {
			*e.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "calendar insert")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
