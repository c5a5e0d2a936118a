package chat

// room.go - the broadcast engine: recipient selection and delivery
// timing for every line that fans out beyond a single session.

import (
	"math"
	"sync/atomic"
	"time"

	"missioncomm/internal/metrics"
)

// Rooms fans messages out to mission participants and listeners.  The
// process-wide delivery delay lives here as an atomically-accessed
// cell rather than ambient global state.
type Rooms struct {
	registry *Registry
	metrics  *metrics.Collector
	delay    atomic.Uint64 // float64 bits, seconds
}

// NewRooms returns a broadcast engine over registry with zero delay.
func NewRooms(registry *Registry, m *metrics.Collector) *Rooms {
	return &Rooms{registry: registry, metrics: m}
}

// Delay returns the current delivery delay in seconds.
func (ro *Rooms) Delay() float64 {
	return math.Float64frombits(ro.delay.Load())
}

// SetDelay replaces the delivery delay.  It affects all subsequent
// deliveries to non-sender, non-listening recipients.
func (ro *Rooms) SetDelay(seconds float64) {
	ro.delay.Store(math.Float64bits(seconds))
}

// SendToRoom delivers line on behalf of sender:
//
//   - listeners get a mission-tagged copy immediately, whatever their
//     own mission is;
//   - the sender's own echo is immediate;
//   - other same-mission participants get the line after the current
//     delay;
//   - everyone else gets nothing.
//
// A sender that has not completed mission capture addresses no room,
// so the call is a no-op.
func (ro *Rooms) SendToRoom(sender *Session, line string) {
	mission := sender.Mission()
	if mission == 0 {
		return
	}
	delay := ro.Delay()
	for _, r := range ro.registry.Snapshot() {
		switch {
		case r.Listening():
			r.Send(formatListen(mission, line))
		case r.Mission() == mission:
			if r == sender || delay <= 0 {
				r.Send(line)
			} else {
				ro.deliverLater(r, line, delay)
			}
		}
	}
	ro.metrics.MessageRelayed()
}

// Broadcast delivers line to every registered session immediately,
// bypassing mission filtering and the delay.
func (ro *Rooms) Broadcast(line string) {
	for _, r := range ro.registry.Snapshot() {
		r.Send(line)
	}
	ro.metrics.BroadcastSent()
}

// deliverLater schedules a fire-and-forget delivery.  The target is
// re-resolved through the registry at fire time: if the callsign is
// gone, or has been reclaimed by a different session, the delivery is
// silently dropped rather than handed to a closed connection.
func (ro *Rooms) deliverLater(target *Session, line string, delaySec float64) {
	callsign := target.Callsign()
	ro.metrics.DelayedScheduled()
	time.AfterFunc(secondsToDuration(delaySec), func() {
		cur, ok := ro.registry.Lookup(callsign)
		if !ok || cur != target {
			ro.metrics.DelayedDropped()
			return
		}
		cur.Send(line)
	})
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
