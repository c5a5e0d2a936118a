// Package config defines the runtime configuration for missioncomm.
package config

import (
	goerrors "errors"

	"missioncomm/internal/errors"
)

// Config holds every tuneable for a single missioncomm server.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Port int // TCP listen port

	// ── Protocol ─────────────────────────────────────────────────────
	MissionMax  int    // missions are 1 .. MissionMax-1
	CallsignMax int    // maximum callsign length
	AdminSecret string // shared secret for /admin

	// ── Flood control ────────────────────────────────────────────────
	RateLines float64 // per-session sustained lines/second (0 disables)
	RateBurst int     // per-session burst allowance

	// ── Startup announcement ─────────────────────────────────────────
	Announce     bool   // discover the public address and announce it
	IPLookupURL  string // plain-text public address endpoint
	SMTPHost     string // empty → no announcement mail
	SMTPPort     int
	SMTPLogin    string
	SMTPPassword string
	MailFrom     string
	MailTo       []string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// New returns a Config populated with the defaults from defaults.go.
func New() *Config {
	return &Config{
		Port:        DefaultPort,
		MissionMax:  DefaultMissionMax,
		CallsignMax: DefaultCallsignMax,
		AdminSecret: DefaultAdminSecret,
		RateLines:   DefaultRateLines,
		RateBurst:   DefaultRateBurst,
		IPLookupURL: DefaultIPLookupURL,
		SMTPPort:    DefaultSMTPPort,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &errors.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "must be between 1 and 65535",
		}
	}
	if c.MissionMax < 2 {
		return &errors.ConfigError{
			Field:   "mission-max",
			Value:   c.MissionMax,
			Message: "must be at least 2",
			Hint:    "missions are numbered 1 .. mission-max-1, so 2 allows a single mission",
		}
	}
	if c.CallsignMax < 1 {
		return &errors.ConfigError{
			Field:   "callsign-max",
			Value:   c.CallsignMax,
			Message: "must be at least 1",
		}
	}
	if c.AdminSecret == "" {
		return &errors.ConfigError{
			Field:   "secret",
			Message: "admin secret must not be empty",
			Hint:    "pass --secret, --secret-prompt, or MCOMM_ADMIN_SECRET",
		}
	}
	if c.RateLines < 0 {
		return &errors.ConfigError{
			Field:   "rate-lines",
			Value:   c.RateLines,
			Message: "must not be negative",
		}
	}
	if c.SMTPHost != "" {
		if c.MailFrom == "" {
			return &errors.ConfigError{
				Field:   "mail-from",
				Message: "required when an SMTP host is configured",
			}
		}
		if len(c.MailTo) == 0 {
			return &errors.ConfigError{
				Field:   "mail-to",
				Message: "at least one recipient is required when an SMTP host is configured",
			}
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			return &errors.ConfigError{
				Field:   "smtp-port",
				Value:   c.SMTPPort,
				Message: "must be between 1 and 65535",
			}
		}
	}
	return nil
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var ce *errors.ConfigError
	return goerrors.As(err, &ce)
}
