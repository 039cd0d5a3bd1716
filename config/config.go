// Package config defines the runtime configuration for gotel and
// provides helpers for parsing tunnel specifications.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	gerr "gotel/internal/errors"
)

// Config holds every tuneable for a single gotel session.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host           string
	Port           int // telnet port, default 23
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration // overall deadline for each prompt wait

	// ── Prompts ──────────────────────────────────────────────────────
	// Prompts are matched byte-for-byte against the tail of the
	// incoming stream.  Use as many characters as possible: a bare
	// "$ " or "# " will misfire on command output.
	Prompts        []string // command prompt(s); required for Execute
	UsernamePrompt string   // default "login: "
	PasswordPrompt string   // default "Password: "

	// ── Login ────────────────────────────────────────────────────────
	Username string
	Password string

	// ── Limits ───────────────────────────────────────────────────────
	MaxBuffer int // prompt-scan buffer ceiling in bytes

	// ── SSH jump host ────────────────────────────────────────────────
	TunnelSpec     string // raw user@host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Execution ────────────────────────────────────────────────────
	Commands []string // -c: commands to run after login

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// ApplyDefaults fills in every unset field that has a sensible default.
// The command prompt deliberately has none: guessing it would make the
// reader loop match the wrong output.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultTelnetPort
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.UsernamePrompt == "" {
		c.UsernamePrompt = DefaultUsernamePrompt
	}
	if c.PasswordPrompt == "" {
		c.PasswordPrompt = DefaultPasswordPrompt
	}
	if c.MaxBuffer == 0 {
		c.MaxBuffer = DefaultMaxBuffer
	}
	if c.TunnelPort == 0 {
		c.TunnelPort = DefaultSSHPort
	}
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent and
// sufficient for a session.  A missing command prompt is rejected here
// rather than deep inside the read loop.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &gerr.ConfigError{
			Field:   "host",
			Message: "hostname is required",
			Hint:    "gotel [options] <host> [port]",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &gerr.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "port out of range 1-65535",
		}
	}
	if len(c.Prompts) == 0 {
		return &gerr.ConfigError{
			Field:   "prompt",
			Message: gerr.ErrPromptNotConfigured.Error(),
			Hint:    `set the remote shell prompt, e.g. --prompt "user@host:~$ "`,
		}
	}
	for _, p := range c.Prompts {
		if p == "" {
			return &gerr.ConfigError{
				Field:   "prompt",
				Message: "prompt must not be empty",
			}
		}
	}
	if c.ReadTimeout < 0 || c.ConnectTimeout < 0 {
		return &gerr.ConfigError{
			Field:   "timeout",
			Message: "timeouts must not be negative",
		}
	}
	if c.Password != "" && c.Username == "" {
		return &gerr.ConfigError{
			Field:   "password",
			Message: "password given without --user",
		}
	}
	if c.TunnelEnabled && c.TunnelHost == "" {
		return &gerr.ConfigError{
			Field:   "tunnel",
			Message: "tunnel host is required",
		}
	}
	return nil
}
