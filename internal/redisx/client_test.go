package redisx

import (
	"testing"
	"time"
)

func TestNew_AppliesTimeouts(t *testing.T) {
	c := New("localhost:6379")
	defer c.Close()

	opts := c.Options()
	if opts.Addr != "localhost:6379" {
		t.Errorf("addr = %q", opts.Addr)
	}
	for name, d := range map[string]time.Duration{
		"dial":  opts.DialTimeout,
		"read":  opts.ReadTimeout,
		"write": opts.WriteTimeout,
	} {
		if d != 2*time.Second {
			t.Errorf("%s timeout = %s, want 2s", name, d)
		}
	}
}
