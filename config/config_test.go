package config

import (
	"strings"
	"testing"
	"time"

	gerr "gotel/internal/errors"
)

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

// ── ApplyDefaults ────────────────────────────────────────────────────

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Host: "router.local"}
	cfg.ApplyDefaults()

	if cfg.Port != DefaultTelnetPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultTelnetPort)
	}
	if cfg.UsernamePrompt != "login: " {
		t.Errorf("UsernamePrompt = %q", cfg.UsernamePrompt)
	}
	if cfg.PasswordPrompt != "Password: " {
		t.Errorf("PasswordPrompt = %q", cfg.PasswordPrompt)
	}
	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v", cfg.ConnectTimeout)
	}
	if cfg.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.MaxBuffer != DefaultMaxBuffer {
		t.Errorf("MaxBuffer = %d", cfg.MaxBuffer)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Host:           "sw1",
		Port:           2323,
		UsernamePrompt: "Username:",
		ReadTimeout:    3 * time.Second,
	}
	cfg.ApplyDefaults()

	if cfg.Port != 2323 {
		t.Errorf("explicit port overwritten: %d", cfg.Port)
	}
	if cfg.UsernamePrompt != "Username:" {
		t.Errorf("explicit username prompt overwritten: %q", cfg.UsernamePrompt)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("explicit read timeout overwritten: %v", cfg.ReadTimeout)
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func valid() *Config {
	cfg := &Config{
		Host:    "10.0.0.1",
		Prompts: []string{"ubuntu@ubuntu:~$ "},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidateOK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing host", func(c *Config) { c.Host = "" }, "host"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"port zero", func(c *Config) { c.Port = -1 }, "port"},
		{"no prompt", func(c *Config) { c.Prompts = nil }, "prompt"},
		{"empty prompt", func(c *Config) { c.Prompts = []string{""} }, "prompt"},
		{"negative timeout", func(c *Config) { c.ReadTimeout = -time.Second }, "timeout"},
		{"password without user", func(c *Config) { c.Password = "s3cret" }, "password"},
		{"tunnel without host", func(c *Config) { c.TunnelEnabled = true }, "tunnel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var ce *gerr.ConfigError
			if !gerr.As(err, &ce) {
				t.Fatalf("want *ConfigError, got %T: %v", err, err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestValidateMissingPromptMentionsSentinel(t *testing.T) {
	cfg := valid()
	cfg.Prompts = nil
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	// The message carries the sentinel text so CLI users see the same
	// wording as library users.
	if want := gerr.ErrPromptNotConfigured.Error(); !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention %q", err.Error(), want)
	}
}
