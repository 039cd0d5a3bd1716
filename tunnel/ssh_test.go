package tunnel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gerr "gotel/internal/errors"
	"gotel/util"
)

func TestNewSSHTunnelDefaults(t *testing.T) {
	tun := NewSSHTunnel(&SSHConfig{Host: "bastion"}, util.NewLogger(0))

	if tun.config.Port != 22 {
		t.Errorf("default port = %d, want 22", tun.config.Port)
	}
	if tun.config.ConnTimeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", tun.config.ConnTimeout)
	}
	if tun.IsAlive() {
		t.Error("fresh tunnel should not be alive")
	}
}

func TestDialBeforeConnect(t *testing.T) {
	tun := NewSSHTunnel(&SSHConfig{Host: "bastion"}, util.NewLogger(0))

	_, err := tun.Dial(context.Background(), "tcp", "10.0.0.1:23")
	if !gerr.Is(err, gerr.ErrNotConnected) {
		t.Errorf("got %v, want ErrNotConnected", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	tun := NewSSHTunnel(&SSHConfig{Host: "bastion"}, util.NewLogger(0))
	if err := tun.Close(); err != nil {
		t.Errorf("closing an unconnected tunnel: %v", err)
	}
	if err := tun.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestBuildAuthMethodsBadKey(t *testing.T) {
	cfg := &SSHConfig{
		Host:    "bastion",
		KeyPath: filepath.Join(t.TempDir(), "no-such-key"),
	}
	if _, err := BuildAuthMethods(cfg); err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestHostKeyCallbackInsecure(t *testing.T) {
	cb, err := hostKeyCallback(&SSHConfig{StrictHostKey: false})
	if err != nil {
		t.Fatalf("insecure callback: %v", err)
	}
	if cb == nil {
		t.Fatal("callback should not be nil")
	}
}

func TestHostKeyCallbackMissingKnownHosts(t *testing.T) {
	cfg := &SSHConfig{
		StrictHostKey: true,
		KnownHosts:    filepath.Join(t.TempDir(), "no-such-file"),
	}
	if _, err := hostKeyCallback(cfg); err == nil {
		t.Fatal("expected error for missing known_hosts")
	}
}
