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
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GOTEL_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GOTEL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("GOTEL_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := os.Getenv("GOTEL_USER"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("GOTEL_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("GOTEL_PROMPT"); v != "" {
		cfg.Prompts = []string{v}
	}
	if v := os.Getenv("GOTEL_LOGIN_PROMPT"); v != "" {
		cfg.UsernamePrompt = v
	}
	if v := os.Getenv("GOTEL_PASSWORD_PROMPT"); v != "" {
		cfg.PasswordPrompt = v
	}
	if v := envInt("GOTEL_TIMEOUT"); v > 0 {
		cfg.ReadTimeout = secondsDuration(v)
	}
	if v := envInt("GOTEL_CONNECT_TIMEOUT"); v > 0 {
		cfg.ConnectTimeout = secondsDuration(v)
	}
	if v := envInt("GOTEL_MAX_BUFFER"); v > 0 {
		cfg.MaxBuffer = v
	}

	// SSH jump host
	if v := os.Getenv("GOTEL_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("GOTEL_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("GOTEL_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("GOTEL_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("GOTEL_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("GOTEL_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("GOTEL_VERBOSE"); v > 0 {
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

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
