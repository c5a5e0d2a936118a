// Package announce implements the startup self-announcement: discover
// the host's public address over HTTP and, if mail is configured,
// email it out.  Everything here is best-effort; a failed announcement
// is logged and never fatal.
package announce

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"missioncomm/config"
	"missioncomm/internal/errors"
	"missioncomm/internal/retry"
	"missioncomm/util"
)

// maxBodyBytes bounds the lookup response; a public address is tiny.
const maxBodyBytes = 256

// Announcer discovers and publishes the server's public address.
type Announcer struct {
	cfg     *config.Config
	logger  *util.Logger
	client  *http.Client
	backoff *retry.Backoff
}

// New returns an Announcer for cfg.
func New(cfg *config.Config, logger *util.Logger) *Announcer {
	return &Announcer{
		cfg:     cfg,
		logger:  logger,
		client:  &http.Client{Timeout: config.DefaultLookupTimeout},
		backoff: &retry.Backoff{InitialDelay: 2 * time.Second, MaxAttempts: 3},
	}
}

// Run performs the full announcement: discovery, an operational log
// line, and the optional mail.  Errors are logged, not returned.
func (a *Announcer) Run(ctx context.Context) {
	addr, err := a.Discover(ctx)
	if err != nil {
		a.logger.Warn("public address discovery failed: %v", err)
		return
	}
	a.logger.Info("mission communicator running on %s, port %d", addr, a.cfg.Port)

	if a.cfg.SMTPHost == "" {
		return
	}
	if err := a.Mail(addr); err != nil {
		a.logger.Warn("announcement mail failed: %v", err)
		return
	}
	a.logger.Verbose("announcement mailed to %s", strings.Join(a.cfg.MailTo, ", "))
}

// Discover fetches the public address from the configured lookup URL,
// retrying transient failures with backoff.
func (a *Announcer) Discover(ctx context.Context) (string, error) {
	var addr string
	err := a.backoff.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			a.logger.Verbose("address lookup attempt %d", attempt)
		}
		got, err := a.lookup(ctx)
		if err != nil {
			return err
		}
		addr = got
		return nil
	})
	if err != nil {
		return "", err
	}
	return addr, nil
}

func (a *Announcer) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.IPLookupURL, nil)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("building lookup request: %w", err))
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", errors.Wrap("lookup", a.cfg.IPLookupURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup %s: unexpected status %s", a.cfg.IPLookupURL, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrap("lookup", a.cfg.IPLookupURL, err)
	}
	addr := strings.TrimSpace(string(body))
	if addr == "" {
		return "", retry.Permanent(errors.ErrNoAddress)
	}
	return addr, nil
}

// Mail sends the announcement message, upgrading to TLS when the
// server offers STARTTLS and authenticating when a login is set.
func (a *Announcer) Mail(addr string) error {
	host := a.cfg.SMTPHost
	c, err := smtp.Dial(util.FormatAddr(host, a.cfg.SMTPPort))
	if err != nil {
		return errors.Wrap("smtp dial", host, err)
	}
	defer c.Quit() //nolint:errcheck

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if a.cfg.SMTPLogin != "" {
		auth := smtp.PlainAuth("", a.cfg.SMTPLogin, a.cfg.SMTPPassword, host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(a.cfg.MailFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range a.cfg.MailTo {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := io.WriteString(w, a.message(addr)); err != nil {
		return fmt.Errorf("smtp body: %w", err)
	}
	return w.Close()
}

// message renders the announcement mail, headers included.
func (a *Announcer) message(addr string) string {
	subject := fmt.Sprintf("Mission communicator running on %s, port %d!", addr, a.cfg.Port)
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		a.cfg.MailFrom, strings.Join(a.cfg.MailTo, ", "), subject, subject)
}
