// Package relay owns the TCP transport: it accepts connections, frames
// input into discrete lines, and feeds them to the chat core.  The
// core never sees a socket; the transport never interprets a line.
package relay

import (
	"missioncomm/config"
	"missioncomm/internal/chat"
	"missioncomm/internal/metrics"
	"missioncomm/util"
)

// Server orchestrates one listening communicator.
type Server struct {
	Config  *config.Config
	Logger  *util.Logger
	Metrics *metrics.Collector
	Core    *chat.Core
}

// New returns a ready-to-run Server.
func New(cfg *config.Config, logger *util.Logger, m *metrics.Collector) (*Server, error) {
	core, err := chat.NewCore(cfg, logger, m)
	if err != nil {
		return nil, err
	}
	return &Server{Config: cfg, Logger: logger, Metrics: m, Core: core}, nil
}
