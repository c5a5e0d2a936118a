package metrics

import (
	"encoding/json"
	"testing"
)

func TestCollector_Connections(t *testing.T) {
	c := New()

	c.ConnectionOpened()
	c.ConnectionOpened()
	if c.ActiveConnections() != 2 {
		t.Errorf("active = %d, want 2", c.ActiveConnections())
	}
	if c.TotalConnections() != 2 {
		t.Errorf("total = %d, want 2", c.TotalConnections())
	}

	c.ConnectionClosed()
	if c.ActiveConnections() != 1 {
		t.Errorf("active = %d, want 1", c.ActiveConnections())
	}
	if c.TotalConnections() != 2 {
		t.Errorf("total should remain 2, got %d", c.TotalConnections())
	}
}

func TestCollector_Traffic(t *testing.T) {
	c := New()

	c.MessageRelayed()
	c.MessageRelayed()
	c.BroadcastSent()
	c.DelayedScheduled()
	c.DelayedScheduled()
	c.DelayedDropped()
	c.WarningSent()

	if c.MessagesRelayed() != 2 {
		t.Errorf("messages = %d, want 2", c.MessagesRelayed())
	}
	if c.Broadcasts() != 1 {
		t.Errorf("broadcasts = %d, want 1", c.Broadcasts())
	}
	if c.DelayedScheduledCount() != 2 {
		t.Errorf("scheduled = %d, want 2", c.DelayedScheduledCount())
	}
	if c.DelayedDroppedCount() != 1 {
		t.Errorf("dropped = %d, want 1", c.DelayedDroppedCount())
	}
	if c.WarningsSent() != 1 {
		t.Errorf("warnings = %d, want 1", c.WarningsSent())
	}
}

func TestCollector_Errors(t *testing.T) {
	c := New()

	c.RecordError("first")
	c.RecordError("second")

	if c.ErrorCount() != 2 {
		t.Errorf("errors = %d, want 2", c.ErrorCount())
	}
	s := c.Snapshot()
	if s.LastErrorMessage != "second" {
		t.Errorf("last error = %q, want %q", s.LastErrorMessage, "second")
	}
	if s.LastError == "" {
		t.Error("last error timestamp not recorded")
	}
}

func TestCollector_NilIsNoOp(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.MessageRelayed()
	c.BroadcastSent()
	c.DelayedScheduled()
	c.DelayedDropped()
	c.WarningSent()
	c.RecordError("ignored")

	if c.ActiveConnections() != 0 || c.ErrorCount() != 0 {
		t.Error("nil collector returned non-zero counts")
	}
	if s := c.Snapshot(); s != (Snapshot{}) {
		t.Errorf("nil snapshot = %+v, want zero value", s)
	}
}

func TestCollector_JSON(t *testing.T) {
	c := New()
	c.ConnectionOpened()
	c.MessageRelayed()

	var s Snapshot
	if err := json.Unmarshal([]byte(c.JSON()), &s); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if s.ConnectionsActive != 1 || s.MessagesRelayed != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.Uptime == "" {
		t.Error("uptime missing from snapshot")
	}
}
