package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the MCOMM_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := envInt("MCOMM_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envInt("MCOMM_MISSION_MAX"); v > 0 {
		cfg.MissionMax = v
	}
	if v := envInt("MCOMM_CALLSIGN_MAX"); v > 0 {
		cfg.CallsignMax = v
	}
	if v := os.Getenv("MCOMM_ADMIN_SECRET"); v != "" {
		cfg.AdminSecret = v
	}
	if v := envFloat("MCOMM_RATE_LINES"); v > 0 {
		cfg.RateLines = v
	}
	if v := envInt("MCOMM_RATE_BURST"); v > 0 {
		cfg.RateBurst = v
	}

	// Announcement
	if envBool("MCOMM_ANNOUNCE") {
		cfg.Announce = true
	}
	if v := os.Getenv("MCOMM_IP_LOOKUP_URL"); v != "" {
		cfg.IPLookupURL = v
	}
	if v := os.Getenv("MCOMM_SMTP_HOST"); v != "" {
		cfg.SMTPHost = v
	}
	if v := envInt("MCOMM_SMTP_PORT"); v > 0 {
		cfg.SMTPPort = v
	}
	if v := os.Getenv("MCOMM_SMTP_LOGIN"); v != "" {
		cfg.SMTPLogin = v
	}
	if v := os.Getenv("MCOMM_SMTP_PASSWORD"); v != "" {
		cfg.SMTPPassword = v
	}
	if v := os.Getenv("MCOMM_MAIL_FROM"); v != "" {
		cfg.MailFrom = v
	}
	if v := os.Getenv("MCOMM_MAIL_TO"); v != "" {
		cfg.MailTo = splitList(v)
	}

	// Output
	if v := envInt("MCOMM_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
