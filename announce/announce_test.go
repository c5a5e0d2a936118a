package announce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"missioncomm/config"
	"missioncomm/internal/errors"
	"missioncomm/util"
)

func newAnnouncer(url string) *Announcer {
	cfg := config.New()
	cfg.IPLookupURL = url
	return New(cfg, util.NewLogger(0))
}

func TestDiscover_ReturnsTrimmedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("203.0.113.7\n"))
	}))
	defer ts.Close()

	addr, err := newAnnouncer(ts.URL).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if addr != "203.0.113.7" {
		t.Errorf("addr = %q, want %q", addr, "203.0.113.7")
	}
}

func TestDiscover_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("203.0.113.7"))
	}))
	defer ts.Close()

	a := newAnnouncer(ts.URL)
	a.backoff.InitialDelay = time.Millisecond // keep the test fast
	addr, err := a.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if addr != "203.0.113.7" {
		t.Errorf("addr = %q", addr)
	}
	if calls.Load() != 3 {
		t.Errorf("lookup calls = %d, want 3", calls.Load())
	}
}

func TestDiscover_EmptyBodyIsPermanent(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte("   \n"))
	}))
	defer ts.Close()

	_, err := newAnnouncer(ts.URL).Discover(context.Background())
	if !errors.Is(err, errors.ErrNoAddress) {
		t.Fatalf("error = %v, want ErrNoAddress", err)
	}
	if calls.Load() != 1 {
		t.Errorf("empty body was retried %d times; it cannot improve", calls.Load())
	}
}

func TestRun_DiscoveryFailureIsNotFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ts.Close() // immediately unreachable

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // no retry waiting either

	// Must log and return, never panic or exit.
	newAnnouncer(ts.URL).Run(ctx)
}

func TestMessage_Headers(t *testing.T) {
	cfg := config.New()
	cfg.Port = 4000
	cfg.MailFrom = "comm@example.com"
	cfg.MailTo = []string{"ops@example.com", "crew@example.com"}
	a := New(cfg, util.NewLogger(0))

	msg := a.message("203.0.113.7")
	for _, want := range []string{
		"From: comm@example.com\r\n",
		"To: ops@example.com, crew@example.com\r\n",
		"Subject: Mission communicator running on 203.0.113.7, port 4000!\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
