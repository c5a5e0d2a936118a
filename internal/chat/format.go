package chat

// format.go - the wire formats and fixed reply strings of the line
// protocol.  Every byte a client sees originates here, so the exact
// escape sequences matter: clients render them as-is.

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayout is the human-readable second-precision stamp used on all
// relayed traffic.
const timeLayout = "2006-01-02 15:04:05"

const (
	ansiReset   = "\x1b[0m"
	ansiRedBold = "\x1b[31;1m"

	// eraseEcho moves the cursor up one line, clears it, and moves up
	// again, wiping the client's locally-echoed input line.
	eraseEcho = "\x1b[A\x1b[2K\x1b[A"
)

// ── Fixed replies ────────────────────────────────────────────────────

const (
	promptCallsign   = "PLEASE ENTER YOUR CALLSIGN: "
	promptMission    = "PLEASE ENTER YOUR MISSION NUMBER:"
	replyTooLong     = "CALLSIGN TOO LONG. CHOOSE ANOTHER:"
	replyInUse       = "CALLSIGN IN USE. CHOOSE ANOTHER:"
	replyNotNumber   = "MISSION MUST BE A NUMBER."
	replyDenied      = "ACCESS DENIED"
	replyAdminOK     = "Administrator access granted."
	replyDelayNaN    = "Delay must be a number. Try again."
	replyListenOn    = "Listening."
	replyListenOff   = "No longer listening."
	replyWarning     = "PLEASE STOP ABUSING THE SYSTEM. THIS IS A WARNING."
	replyWhoHeader   = "MISSION PARTICIPANTS:"
	replySlowDown    = "SLOW DOWN. MESSAGE DROPPED."
)

var banner = []string{
	"+=============================================================================+",
	"|                                                                             |",
	"|                                                                             |",
	"|                             MARS MISSION COMMUNICATOR                       |",
	"|                                                                             |",
	"|                                                                             |",
	"+=============================================================================+",
	"",
}

// ── Message formatting ───────────────────────────────────────────────

func stamp() string { return time.Now().Format(timeLayout) }

func formatChat(callsign, message string) string {
	return fmt.Sprintf("%s: <%s> %s", stamp(), strings.ToUpper(callsign), message)
}

func formatJoin(callsign string, mission int) string {
	return fmt.Sprintf("%s: %s JOINED MISSION %d.", stamp(), strings.ToUpper(callsign), mission)
}

func formatDeparture(callsign string, mission int) string {
	return fmt.Sprintf("%s: %s IS NO LONGER PART OF MISSION %d.", stamp(), strings.ToUpper(callsign), mission)
}

func formatBroadcast(message string) string {
	return fmt.Sprintf("%s%s: %s%s", ansiRedBold, stamp(), message, ansiReset)
}

func formatWelcome(callsign string, mission int) string {
	return fmt.Sprintf("WELCOME TO MISSION %d, %s.", mission, strings.ToUpper(callsign))
}

func formatBadMission(missionMax int) string {
	return fmt.Sprintf("MISSION MUST BE A WHOLE NUMBER GREATER THAN 0 AND LESS THAN %d. TRY AGAIN:", missionMax)
}

// formatListen tags a message with its mission number, wrapped in that
// mission's color, for sessions eavesdropping on all traffic.
func formatListen(mission int, message string) string {
	return fmt.Sprintf("%sMISSION %d: %s%s", missionColor(mission), mission, message, ansiReset)
}

// formatRoster is one colored /who line for the admin listing.
func formatRoster(callsign string, mission int) string {
	if mission == 0 {
		// Still in mission capture; no color to derive.
		return callsign
	}
	return fmt.Sprintf("%sMISSION %d: %s%s", missionColor(mission), mission, callsign, ansiReset)
}

// missionColor derives a bold ANSI foreground color from the mission
// number.  Eight terminal colors exist, so missions wrap around.
func missionColor(mission int) string {
	return fmt.Sprintf("\x1b[3%d;1m", mission%8)
}

// ── Line protocol utilities ──────────────────────────────────────────

// parseMission parses s as a mission number and checks it falls in
// (0, missionMax).
func parseMission(s string, missionMax int) (int, bool) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if m <= 0 || m >= missionMax {
		return 0, false
	}
	return m, true
}

// parseDelay parses s as a non-negative delay in seconds.
func parseDelay(s string) (float64, bool) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// isNumeric reports whether s parses as a number at all, used to give
// /mission a distinct complaint before range validation runs.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// splitCommand separates the first whitespace-delimited token from the
// rest of the line.  The remainder keeps its internal spacing.
func splitCommand(line string) (token, args string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	token = fields[0]
	args = strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(line, " \t"), token))
	return token, args
}
