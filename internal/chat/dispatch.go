package chat

// dispatch.go - the closed command table.  Each recognized token maps
// to a handler plus an authorization predicate; anything else on a
// chat line is chat.

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type handler func(s *Session, args string)

type command struct {
	run       handler
	adminOnly bool
}

// commands is the complete set of recognized command tokens.
var commands = map[string]command{
	"/quit":      {run: (*Session).cmdQuit},
	"/admin":     {run: (*Session).cmdAdmin},
	"/mission":   {run: (*Session).cmdMission},
	"/warn":      {run: (*Session).cmdWarn},
	"/who":       {run: (*Session).cmdWho},
	"/broadcast": {run: (*Session).cmdBroadcast, adminOnly: true},
	"/setdelay":  {run: (*Session).cmdSetDelay, adminOnly: true},
	"/listen":    {run: (*Session).cmdListen, adminOnly: true},
	"/stats":     {run: (*Session).cmdStats, adminOnly: true},
}

// dispatch runs the handler for token, if token is a recognized
// command.  It reports whether the line was consumed.  Authorization
// failures reply with the same fixed denial an unrecognized password
// gets, leaking nothing about the command itself.
func (s *Session) dispatch(token, args string) bool {
	c, ok := commands[token]
	if !ok {
		return false
	}
	if c.adminOnly && !s.Admin() {
		s.Send(replyDenied)
		return true
	}
	c.run(s, args)
	return true
}

// ── Handlers ─────────────────────────────────────────────────────────

func (s *Session) cmdQuit(string) {
	if s.closeConn != nil {
		s.closeConn()
	}
}

// cmdAdmin grants the admin flag on the shared secret.  Granting is
// idempotent; the flag is never unset.
func (s *Session) cmdAdmin(password string) {
	if bcrypt.CompareHashAndPassword(s.core.secretHash, []byte(password)) != nil {
		s.Send(replyDenied)
		return
	}
	s.mu.Lock()
	s.admin = true
	s.mu.Unlock()
	s.Send(replyAdminOK)
	s.core.Logger.Info("%s granted administrator access", strings.ToUpper(s.Callsign()))
}

// cmdMission re-runs mission capture for a switch.  Non-numeric input
// gets a distinct complaint before range validation.
func (s *Session) cmdMission(args string) {
	if !isNumeric(args) {
		s.Send(replyNotNumber)
		return
	}
	s.captureMission(args)
}

// cmdWarn sends the fixed warning line to the named session.  An
// unknown callsign is a silent no-op.
func (s *Session) cmdWarn(callsign string) {
	target, ok := s.core.Registry.Lookup(callsign)
	if !ok {
		return
	}
	target.Send(replyWarning)
	s.core.Metrics.WarningSent()
	s.core.Logger.Verbose("%s warned %s", s.Callsign(), callsign)
}

// cmdWho lists participants.  Admins see every registered session with
// its mission; everyone else sees only the callsigns sharing theirs.
func (s *Session) cmdWho(string) {
	s.Send(replyWhoHeader)
	if s.Admin() {
		for _, r := range s.core.Registry.Snapshot() {
			s.Send(formatRoster(r.Callsign(), r.Mission()))
		}
		return
	}
	mission := s.Mission()
	for _, r := range s.core.Registry.Snapshot() {
		if mission != 0 && r.Mission() == mission {
			s.Send(r.Callsign())
		}
	}
}

func (s *Session) cmdBroadcast(message string) {
	s.core.Rooms.Broadcast(formatBroadcast(message))
	s.core.Logger.Info("broadcast from %s: %s", strings.ToUpper(s.Callsign()), message)
}

func (s *Session) cmdSetDelay(args string) {
	delay, ok := parseDelay(args)
	if !ok {
		s.Send(replyDelayNaN)
		return
	}
	s.core.Rooms.SetDelay(delay)
	s.Send("Delay set to " + strings.TrimSpace(args) + ".")
	s.core.Logger.Info("%s set delivery delay to %gs", strings.ToUpper(s.Callsign()), delay)
}

func (s *Session) cmdListen(string) {
	s.mu.Lock()
	s.listening = !s.listening
	on := s.listening
	s.mu.Unlock()
	if on {
		s.Send(replyListenOn)
	} else {
		s.Send(replyListenOff)
	}
}

// cmdStats dumps the runtime metrics snapshot, one line per output
// line so clients render it cleanly.
func (s *Session) cmdStats(string) {
	for _, line := range strings.Split(s.core.Metrics.JSON(), "\n") {
		s.Send(line)
	}
}
