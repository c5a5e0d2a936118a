package chat

import (
	"io"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Phase is the protocol state of a session.  Transitions only move
// forward; nothing returns a session to an earlier phase.
type Phase int

const (
	// AwaitingCallsign: the next line is the user's callsign.
	AwaitingCallsign Phase = iota
	// AwaitingMission: the next line is the user's mission number.
	AwaitingMission
	// Chatting: lines are commands or chat messages.
	Chatting
)

// outboundBacklog is the per-session output buffer in lines.  A client
// that stops reading has messages dropped rather than stalling the
// room.
const outboundBacklog = 64

// Session owns the state of one connected client and interprets its
// input lines according to the current phase.
type Session struct {
	core      *Core
	closeConn func()

	// limiter and limitWarned are only touched by the reader
	// goroutine that calls HandleLine.
	limiter     *rate.Limiter
	limitWarned bool
	phase       Phase

	mu        sync.Mutex // guards the fields below
	callsign  string
	mission   int // 0 until mission capture succeeds
	admin     bool
	listening bool

	sendMu   sync.Mutex // guards closed and sends on outgoing
	closed   bool
	outgoing chan string
}

// ── Accessors for cross-goroutine reads ──────────────────────────────

// Callsign returns the registered callsign, or "" before name capture.
func (s *Session) Callsign() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callsign
}

// Mission returns the joined mission, or 0 before mission capture.
func (s *Session) Mission() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mission
}

// Admin reports whether the session has authenticated as admin.
func (s *Session) Admin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// Listening reports whether the session eavesdrops on all missions.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Phase returns the current protocol phase.
func (s *Session) Phase() Phase { return s.phase }

// ── Output ───────────────────────────────────────────────────────────

// Send queues one line for delivery to this session.  It never blocks
// and is safe to call after Close; late lines are silently dropped.
func (s *Session) Send(line string) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.outgoing <- line:
	default:
		s.core.Logger.Debug("dropping line to slow client %q", s.Callsign())
	}
}

// writeLoop drains the outgoing queue onto the transport writer.  It
// exits when Close closes the queue.  Write errors mean the connection
// is gone; the remaining queue is drained and discarded.
func (s *Session) writeLoop(w io.Writer) {
	for line := range s.outgoing {
		io.WriteString(w, line+"\r\n") //nolint:errcheck
	}
}

// ── Lifecycle ────────────────────────────────────────────────────────

// Close tears the session down: no further output is accepted, the
// registry entry is removed, and the departure is announced to the
// session's mission.  A session that never finished login is only
// unregistered and logged.  Close is idempotent.
func (s *Session) Close() {
	s.sendMu.Lock()
	if s.closed {
		s.sendMu.Unlock()
		return
	}
	s.closed = true
	close(s.outgoing)
	s.sendMu.Unlock()

	s.core.Registry.Unregister(s)

	callsign, mission := s.Callsign(), s.Mission()
	switch {
	case callsign != "" && mission != 0:
		s.core.Rooms.SendToRoom(s, formatDeparture(callsign, mission))
		s.core.Logger.Info("%s left mission %d", strings.ToUpper(callsign), mission)
	case callsign != "":
		s.core.Logger.Verbose("%s disconnected before joining a mission", callsign)
	default:
		s.core.Logger.Verbose("connection closed during callsign capture")
	}
}

// ── Line handling ────────────────────────────────────────────────────

// HandleLine is the protocol entry point: one decoded input line per
// call.  Empty and whitespace-only lines are ignored in every phase.
// Command dispatch is active only in the Chatting phase; command-like
// text typed earlier is taken literally as a callsign or mission
// number.
func (s *Session) HandleLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if s.limiter != nil && !s.limiter.Allow() {
		if !s.limitWarned {
			s.limitWarned = true
			s.Send(replySlowDown)
		}
		return
	}
	s.limitWarned = false

	// Wipe the client's locally-echoed input line.
	s.Send(eraseEcho)

	switch s.phase {
	case AwaitingCallsign:
		s.handleCallsign(line)
	case AwaitingMission:
		s.captureMission(line)
	default:
		token, args := splitCommand(line)
		if s.dispatch(token, args) {
			return
		}
		s.core.Rooms.SendToRoom(s, formatChat(s.Callsign(), line))
	}
}

// handleCallsign validates and claims the callsign.  Rejections keep
// the session in AwaitingCallsign with a corrective re-prompt.
func (s *Session) handleCallsign(name string) {
	if len(name) > s.core.Config.CallsignMax {
		s.Send(replyTooLong)
		return
	}
	if !s.core.Registry.Register(name, s) {
		s.Send(replyInUse)
		return
	}
	s.mu.Lock()
	s.callsign = name
	s.mu.Unlock()
	s.phase = AwaitingMission
	s.Send(promptMission)
}

// captureMission validates a mission number and moves the session into
// it.  Used both by the AwaitingMission phase and by /mission, which
// re-runs the same validation for a switch.
func (s *Session) captureMission(text string) {
	mission, ok := parseMission(text, s.core.Config.MissionMax)
	if !ok {
		s.Send(formatBadMission(s.core.Config.MissionMax))
		return
	}

	s.mu.Lock()
	s.mission = mission
	admin := s.admin
	s.mu.Unlock()
	s.phase = Chatting

	callsign := s.Callsign()
	s.Send(formatWelcome(callsign, mission))
	s.core.Logger.Info("%s joined mission %d", strings.ToUpper(callsign), mission)
	if !admin {
		s.core.Rooms.SendToRoom(s, formatJoin(callsign, mission))
	}
}
