package relay

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"missioncomm/internal/errors"
)

// maxLineBytes caps a single input line.  Anything longer is a client
// misbehaving; the connection is dropped.
const maxLineBytes = 4096

// Run listens on the configured port and serves connections until ctx
// is cancelled.  A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.Config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap("listen", addr, err)
	}
	defer ln.Close()

	s.Logger.Info("mission communicator listening on %s", ln.Addr())

	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.Metrics.RecordError(err.Error())
				return errors.Wrap("accept", addr, err)
			}
		}

		s.Logger.Verbose("connection from %s", conn.RemoteAddr())
		go s.serveConn(ctx, conn)
	}
}

// serveConn pumps decoded lines from one connection into its session
// until the client disconnects or the server shuts down.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	s.Metrics.ConnectionOpened()
	defer s.Metrics.ConnectionClosed()

	sess := s.Core.NewSession(conn, func() { conn.Close() })
	defer sess.Close()

	// Drop the connection on shutdown so the scanner unblocks.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 256), maxLineBytes)
	for sc.Scan() {
		// Telnet and friends terminate lines with \r\n.
		sess.HandleLine(strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		s.Logger.Verbose("read from %s: %v", conn.RemoteAddr(), err)
	}
}
