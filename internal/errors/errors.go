// Package errors provides domain-specific error types for missioncomm.
//
// These types carry structured context (operation, address, field) that
// helps callers decide how to handle failures and provides better
// diagnostics than plain string wrapping.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrServerClosed is returned by the accept loop after a clean,
	// context-driven shutdown.
	ErrServerClosed = errors.New("server closed")

	// ErrSessionClosed signals a write to a session whose connection
	// has already gone away.
	ErrSessionClosed = errors.New("session closed")

	// ErrNoAddress signals that public-address discovery produced an
	// empty result.
	ErrNoAddress = errors.New("no public address discovered")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op   string // operation: "listen", "accept", "write", "lookup"
	Addr string // network address involved
	Err  error  // underlying error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use missioncomm/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
