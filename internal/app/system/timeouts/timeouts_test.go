package timeouts

import (
	"context"
	"testing"
	"time"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()
	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short = %v", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium changed to %v", Medium())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	defer Reset()
	t.Setenv("CAMPUSHUB_TIMEOUT_PING", "500ms")
	t.Setenv("CAMPUSHUB_TIMEOUT_LONG", "bogus")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("applied %d values, want 1", n)
	}
	if Ping() != 500*time.Millisecond {
		t.Errorf("Ping = %v", Ping())
	}
	if Long() != DefaultLong {
		t.Errorf("Long = %v", Long())
	}
}

func TestWithTimeout_Deadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, nil, "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err = %v", ctx.Err())
	}
}
