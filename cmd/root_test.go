package cmd

import (
	"context"
	"strings"
	"testing"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	err := Execute(context.Background(), []string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help (and no args) returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {}} {
		name := "no-args"
		if len(args) > 0 {
			name = args[0]
		}
		t.Run(name, func(t *testing.T) {
			err := Execute(context.Background(), args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	err := Execute(context.Background(), []string{
		"--dry-run", "--prompt", "$ ", "example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_DryRunMissingPrompt verifies --dry-run still catches bad configs.
func TestExecute_DryRunMissingPrompt(t *testing.T) {
	err := Execute(context.Background(), []string{
		"--dry-run", "example.com", // no --prompt
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "prompt") {
		t.Errorf("error should mention the prompt: %v", err)
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	err := Execute(context.Background(), []string{"--nonexistent-flag"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_BadPort verifies a non-numeric port argument is rejected.
func TestExecute_BadPort(t *testing.T) {
	err := Execute(context.Background(), []string{
		"--dry-run", "--prompt", "$ ", "example.com", "not-a-port",
	})
	if err == nil {
		t.Fatal("expected error for bad port")
	}
}

// TestExecute_TunnelSpec verifies -T parsing on the happy and sad path.
func TestExecute_TunnelSpec(t *testing.T) {
	err := Execute(context.Background(), []string{
		"--dry-run", "-T", "admin@bastion:2222", "--prompt", "$ ", "example.com",
	})
	if err != nil {
		t.Fatalf("valid tunnel spec rejected: %v", err)
	}

	err = Execute(context.Background(), []string{
		"--dry-run", "-T", "admin@bastion:99999", "--prompt", "$ ", "example.com",
	})
	if err == nil {
		t.Fatal("expected error for malformed tunnel spec")
	}
}

// TestExecute_EnvDefaults verifies GOTEL_* variables feed the config.
func TestExecute_EnvDefaults(t *testing.T) {
	t.Setenv("GOTEL_PROMPT", "$ ")
	t.Setenv("GOTEL_HOST", "example.com")

	err := Execute(context.Background(), []string{"--dry-run"})
	if err != nil {
		t.Fatalf("env-provided config rejected: %v", err)
	}
}
