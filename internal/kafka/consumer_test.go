package kafka

import (
	"io"
	"log/slog"
	"testing"
)

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer([]string{"localhost:9092"}, "g", "t", 0, nil)
	defer c.r.Close()

	if c.workers != 1 {
		t.Errorf("workers = %d, want clamped to 1", c.workers)
	}
	if c.log == nil {
		t.Error("nil logger should fall back to the default")
	}
	if got := c.r.Config().Topic; got != "t" {
		t.Errorf("topic = %q, want t", got)
	}
}

func TestNewConsumer_KeepsSettings(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewConsumer([]string{"localhost:9092"}, "g", "t", 8, logger)
	defer c.r.Close()

	if c.workers != 8 {
		t.Errorf("workers = %d, want 8", c.workers)
	}
	if c.log != logger {
		t.Error("provided logger was replaced")
	}
	if got := c.r.Config().GroupID; got != "g" {
		t.Errorf("group = %q, want g", got)
	}
}
