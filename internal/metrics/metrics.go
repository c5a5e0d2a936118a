// Package metrics provides lightweight counters for tracking runtime
// statistics of a missioncomm server.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a running server.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	messagesRelayed   atomic.Int64
	broadcasts        atomic.Int64
	delayedScheduled  atomic.Int64
	delayedDropped    atomic.Int64
	warningsSent      atomic.Int64
	errorsTotal       atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ── Traffic metrics ──────────────────────────────────────────────────

// MessageRelayed records one chat message fanned out to its mission.
func (c *Collector) MessageRelayed() {
	if c == nil {
		return
	}
	c.messagesRelayed.Add(1)
}

// MessagesRelayed returns the lifetime chat message count.
func (c *Collector) MessagesRelayed() int64 {
	if c == nil {
		return 0
	}
	return c.messagesRelayed.Load()
}

// BroadcastSent records one admin broadcast.
func (c *Collector) BroadcastSent() {
	if c == nil {
		return
	}
	c.broadcasts.Add(1)
}

// Broadcasts returns the lifetime admin broadcast count.
func (c *Collector) Broadcasts() int64 {
	if c == nil {
		return 0
	}
	return c.broadcasts.Load()
}

// ── Delayed delivery metrics ─────────────────────────────────────────

// DelayedScheduled records one delivery scheduled behind the delay.
func (c *Collector) DelayedScheduled() {
	if c == nil {
		return
	}
	c.delayedScheduled.Add(1)
}

// DelayedScheduledCount returns how many deliveries were scheduled.
func (c *Collector) DelayedScheduledCount() int64 {
	if c == nil {
		return 0
	}
	return c.delayedScheduled.Load()
}

// DelayedDropped records a scheduled delivery dropped because its
// target disconnected before the delay elapsed.
func (c *Collector) DelayedDropped() {
	if c == nil {
		return
	}
	c.delayedDropped.Add(1)
}

// DelayedDroppedCount returns how many scheduled deliveries were dropped.
func (c *Collector) DelayedDroppedCount() int64 {
	if c == nil {
		return 0
	}
	return c.delayedDropped.Load()
}

// ── Moderation metrics ───────────────────────────────────────────────

// WarningSent records one /warn delivered to its target.
func (c *Collector) WarningSent() {
	if c == nil {
		return
	}
	c.warningsSent.Add(1)
}

// WarningsSent returns the lifetime /warn count.
func (c *Collector) WarningsSent() int64 {
	if c == nil {
		return 0
	}
	return c.warningsSent.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	ConnectionsActive int64  `json:"connections_active"`
	ConnectionsTotal  int64  `json:"connections_total"`
	MessagesRelayed   int64  `json:"messages_relayed"`
	Broadcasts        int64  `json:"broadcasts"`
	DelayedScheduled  int64  `json:"delayed_scheduled"`
	DelayedDropped    int64  `json:"delayed_dropped"`
	WarningsSent      int64  `json:"warnings_sent"`
	ErrorsTotal       int64  `json:"errors_total"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		MessagesRelayed:   c.messagesRelayed.Load(),
		Broadcasts:        c.broadcasts.Load(),
		DelayedScheduled:  c.delayedScheduled.Load(),
		DelayedDropped:    c.delayedDropped.Load(),
		WarningsSent:      c.warningsSent.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
