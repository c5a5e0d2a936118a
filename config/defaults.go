package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, environment variable loading, and tests.

const (
	// DefaultPort is the TCP port the communicator listens on.
	DefaultPort = 4000

	// DefaultMissionMax is the exclusive upper bound on mission
	// numbers; valid missions are 1 .. MissionMax-1.
	DefaultMissionMax = 10

	// DefaultCallsignMax is the maximum callsign length in characters.
	DefaultCallsignMax = 10

	// DefaultAdminSecret is the shared secret for /admin.  Override it
	// with --secret or MCOMM_ADMIN_SECRET on anything but a LAN toy.
	DefaultAdminSecret = "pleaseandthankyou"

	// DefaultIPLookupURL returns the caller's public address as a
	// plain-text body.
	DefaultIPLookupURL = "http://ip.42.pl/raw"

	// DefaultLookupTimeout bounds a single public-address lookup.
	DefaultLookupTimeout = 10 * time.Second

	// DefaultSMTPPort is the submission port used for the startup
	// announcement mail.
	DefaultSMTPPort = 587

	// DefaultRateLines is the sustained per-session input budget in
	// lines per second.  Lines over budget are dropped.
	DefaultRateLines = 5

	// DefaultRateBurst is the per-session input burst allowance.
	DefaultRateBurst = 10
)
