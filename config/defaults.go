package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultTelnetPort is the standard telnet port.
	DefaultTelnetPort = 23

	// DefaultSSHPort is the standard SSH port (jump host).
	DefaultSSHPort = 22

	// DefaultUsernamePrompt matches the classic telnetd login banner.
	DefaultUsernamePrompt = "login: "

	// DefaultPasswordPrompt matches the classic telnetd password ask.
	DefaultPasswordPrompt = "Password: "

	// DefaultConnectTimeout bounds the TCP/SSH connection setup.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultReadTimeout bounds each prompt wait, measured from the
	// start of the wait rather than per chunk.
	DefaultReadTimeout = 10 * time.Second

	// DefaultMaxBuffer caps how much output a single prompt wait may
	// accumulate before failing with ErrBufferLimit.
	DefaultMaxBuffer = 4 << 20 // 4 MiB
)
