package chat

// Shared test harness: an in-memory output stream plus helpers for
// walking sessions through the login phases.

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"missioncomm/config"
	"missioncomm/internal/metrics"
	"missioncomm/util"
)

// testConn is a concurrency-safe output stream standing in for a
// client connection.
type testConn struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *testConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *testConn) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// waitFor polls until substr shows up in the stream or the deadline
// passes.  Session output is written by a separate goroutine, so tests
// must wait rather than read immediately.
func waitFor(t *testing.T, c *testConn, substr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(c.String(), substr) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", substr, c.String())
}

// neverSee asserts that substr does not appear within the settle window.
func neverSee(t *testing.T, c *testConn, substr string) {
	t.Helper()
	time.Sleep(100 * time.Millisecond)
	if strings.Contains(c.String(), substr) {
		t.Fatalf("unexpected %q in output:\n%s", substr, c.String())
	}
}

func newTestCore(t *testing.T) *Core {
	t.Helper()
	cfg := config.New()
	cfg.RateLines = 0 // tests drive input faster than any human
	core, err := NewCore(cfg, util.NewLogger(0), metrics.New())
	if err != nil {
		t.Fatalf("NewCore: %v", err)
	}
	return core
}

// login walks a fresh session through name and mission capture.
func login(t *testing.T, core *Core, out *testConn, callsign string, mission int) *Session {
	t.Helper()
	s := core.NewSession(out, nil)
	s.HandleLine(callsign)
	s.HandleLine(strconv.Itoa(mission))
	if s.Phase() != Chatting {
		t.Fatalf("login %q/%d: phase = %v, want Chatting (output: %s)",
			callsign, mission, s.Phase(), out.String())
	}
	return s
}

// makeAdmin authenticates s with the default secret.
func makeAdmin(t *testing.T, s *Session) {
	t.Helper()
	s.HandleLine("/admin " + config.DefaultAdminSecret)
	if !s.Admin() {
		t.Fatal("session did not become admin")
	}
}
