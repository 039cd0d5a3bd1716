// Package errors provides domain-specific error types for gotel.
//
// These types carry structured context (operation, address, underlying
// cause) so callers can tell a dead connection from a missed prompt
// without string matching, while errors.Is/As keep working through
// Unwrap.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrTimeout marks a read, write, or connect that ran out of time
	// before completing, most commonly a prompt that never arrived.
	ErrTimeout = errors.New("operation timed out")

	// ErrClosed marks an end-of-stream from the remote side before the
	// expected prompt was seen.
	ErrClosed = errors.New("connection closed by remote")

	// ErrPromptNotConfigured is returned by operations that need a
	// shell prompt when none was ever set.
	ErrPromptNotConfigured = errors.New("command prompt not configured")

	// ErrBufferLimit is returned when the prompt scanner's buffer
	// ceiling is exceeded without a match.  This is a hard failure:
	// output is never silently truncated.
	ErrBufferLimit = errors.New("read buffer limit exceeded")

	// ErrNotConnected is returned when an operation is attempted on a
	// session or tunnel whose transport is gone.
	ErrNotConnected = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a transport operation.
type NetworkError struct {
	Op   string // operation: "connect", "read", "write"
	Addr string // network address involved
	Err  error  // underlying error (may be a sentinel above)
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout implements net.Error-style timeout reporting for callers
// that probe with a type assertion instead of errors.Is.
func (e *NetworkError) Timeout() bool { return errors.Is(e.Err, ErrTimeout) }

// PromptError represents a prompt wait that failed, recording which
// prompt the session was waiting for when the failure happened.
type PromptError struct {
	Prompt string // the prompt that never matched
	Err    error  // ErrTimeout, ErrClosed, ErrBufferLimit, or an I/O error
}

func (e *PromptError) Error() string {
	return fmt.Sprintf("waiting for prompt %q: %v", e.Prompt, e.Err)
}

func (e *PromptError) Unwrap() error { return e.Err }

// SSHError represents an SSH tunnel failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "forward"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid or missing configuration value.
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

// Wrap creates a NetworkError for op against addr.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{Op: op, Addr: addr, Err: err}
}

// WrapPrompt creates a PromptError for a failed wait on prompt.
func WrapPrompt(prompt string, err error) *PromptError {
	return &PromptError{Prompt: prompt, Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsTimeout reports whether err is (or wraps) a deadline expiry.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsClosed reports whether err is (or wraps) a remote disconnect.
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use gotel/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
