// Package cmd wires up the CLI flags and dispatches to the relay core.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"missioncomm/announce"
	"missioncomm/config"
	"missioncomm/internal/metrics"
	"missioncomm/relay"
	"missioncomm/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X missioncomm/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the communicator.
func Execute(ctx context.Context, args []string) error {
	cfg := config.New()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("missioncomm", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "TCP listen port")

	// ── protocol ─────────────────────────────────────────────────
	fs.IntVar(&cfg.MissionMax, "mission-max", cfg.MissionMax, "Exclusive upper bound on mission numbers")
	fs.IntVar(&cfg.CallsignMax, "callsign-max", cfg.CallsignMax, "Maximum callsign length")
	fs.StringVar(&cfg.AdminSecret, "secret", cfg.AdminSecret, "Shared admin secret")
	var secretPrompt bool
	fs.BoolVar(&secretPrompt, "secret-prompt", false, "Prompt for the admin secret interactively")

	// ── flood control ────────────────────────────────────────────
	fs.Float64Var(&cfg.RateLines, "rate-lines", cfg.RateLines, "Per-session input budget in lines/second (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Per-session input burst allowance")

	// ── announcement ─────────────────────────────────────────────
	fs.BoolVar(&cfg.Announce, "announce", cfg.Announce, "Discover the public address at startup and announce it")
	fs.StringVar(&cfg.IPLookupURL, "ip-lookup-url", cfg.IPLookupURL, "Plain-text public address endpoint")
	fs.StringVar(&cfg.SMTPHost, "smtp-host", cfg.SMTPHost, "SMTP host for the announcement mail")
	fs.IntVar(&cfg.SMTPPort, "smtp-port", cfg.SMTPPort, "SMTP submission port")
	fs.StringVar(&cfg.SMTPLogin, "smtp-login", cfg.SMTPLogin, "SMTP login (password via MCOMM_SMTP_PASSWORD)")
	fs.StringVar(&cfg.MailFrom, "mail-from", cfg.MailFrom, "Announcement sender address")
	fs.StringSliceVar(&cfg.MailTo, "mail-to", cfg.MailTo, "Announcement recipients")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("missioncomm %s\n", version)
		return nil
	}

	if secretPrompt {
		secret, err := promptSecret()
		if err != nil {
			return err
		}
		cfg.AdminSecret = secret
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		fmt.Println("configuration OK")
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose + 1) // default level: normal
	collector := metrics.New()

	srv, err := relay.New(cfg, logger, collector)
	if err != nil {
		return err
	}

	if cfg.Announce {
		go announce.New(cfg, logger).Run(ctx)
	}

	return srv.Run(ctx)
}

// promptSecret reads the admin secret without echoing it.
func promptSecret() (string, error) {
	fmt.Fprint(os.Stderr, "Admin secret: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(secret), nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `missioncomm – Mission Communicator v%s

A text-line chat server that partitions clients into numbered missions,
with an admin role, room broadcast, and an artificial delivery delay.

Usage:
  missioncomm [options]                       Listen on the default port
  missioncomm -p 4000 -vv                     Listen with verbose logging
  missioncomm --announce --smtp-host mail.example.com \
      --mail-from ops@example.com --mail-to crew@example.com

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Clients connect with any line-mode TCP client (telnet, nc).  Once in,
type /admin <secret> for the /broadcast, /setdelay, /listen, /stats,
and full /who commands.
`)
}
