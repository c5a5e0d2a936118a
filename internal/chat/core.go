// Package chat implements the communicator core: the per-connection
// protocol state machine, the shared session registry, the room
// broadcast engine, and the command dispatcher.
//
// The core never touches sockets.  The transport hands each session a
// decoded line of text per call and an io.Writer for its output
// stream; everything in between is this package.
package chat

import (
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"missioncomm/config"
	"missioncomm/internal/metrics"
	"missioncomm/util"
)

// Core ties together the shared state every session operates on.
type Core struct {
	Config   *config.Config
	Registry *Registry
	Rooms    *Rooms
	Logger   *util.Logger
	Metrics  *metrics.Collector

	secretHash []byte // bcrypt hash of the shared admin secret
}

// NewCore builds the shared core.  The admin secret is hashed once
// here so the plaintext is not kept for the process lifetime.
func NewCore(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (*Core, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin secret: %w", err)
	}
	registry := NewRegistry()
	return &Core{
		Config:     cfg,
		Registry:   registry,
		Rooms:      NewRooms(registry, m),
		Logger:     logger,
		Metrics:    m,
		secretHash: hash,
	}, nil
}

// NewSession attaches a fresh session to an output stream.  closeConn
// is the transport hook /quit uses to drop the connection; it may be
// nil in tests.  The banner and callsign prompt are sent immediately.
func (c *Core) NewSession(w io.Writer, closeConn func()) *Session {
	s := &Session{
		core:      c,
		closeConn: closeConn,
		outgoing:  make(chan string, outboundBacklog),
	}
	if c.Config.RateLines > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(c.Config.RateLines), c.Config.RateBurst)
	}
	go s.writeLoop(w)

	for _, line := range banner {
		s.Send(line)
	}
	s.Send(promptCallsign)
	return s
}
