// Package cmd wires up the CLI flags and dispatches to the telnet core.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"gotel/config"
	"gotel/internal/transport"
	"gotel/telnet"
	"gotel/tunnel"
	"gotel/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X gotel/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs a gotel session.  Environment variables
// (GOTEL_*) provide flag defaults; flags win when both are set.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("gotel", flag.ContinueOnError)

	// ── prompts ──────────────────────────────────────────────────
	fs.StringArrayVarP(&cfg.Prompts, "prompt", "P", cfg.Prompts, "Remote command prompt (repeatable)")
	fs.StringVar(&cfg.UsernamePrompt, "login-prompt", cfg.UsernamePrompt, "Username prompt (default \"login: \")")
	fs.StringVar(&cfg.PasswordPrompt, "password-prompt", cfg.PasswordPrompt, "Password prompt (default \"Password: \")")

	// ── login ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.Username, "user", "u", cfg.Username, "Username for login")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Password for login (prompted if omitted)")

	// ── timing / limits ──────────────────────────────────────────
	var timeoutSec, connectSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Prompt wait timeout in seconds")
	fs.IntVar(&connectSec, "connect-timeout", 0, "Connect timeout in seconds")
	fs.IntVar(&cfg.MaxBuffer, "max-buffer", cfg.MaxBuffer, "Prompt-scan buffer ceiling in bytes")

	// ── execution ────────────────────────────────────────────────
	fs.StringArrayVarP(&cfg.Commands, "command", "c", cfg.Commands, "Command to run after login (repeatable)")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("gotel %s\n", version)
		return nil
	}

	if timeoutSec > 0 {
		cfg.ReadTimeout = time.Duration(timeoutSec) * time.Second
	}
	if connectSec > 0 {
		cfg.ConnectTimeout = time.Duration(connectSec) * time.Second
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	var dialer transport.Dialer = &transport.TCPDialer{Timeout: cfg.ConnectTimeout}
	if cfg.TunnelEnabled {
		sshDialer := transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.ConnectTimeout,
		}, logger)
		defer sshDialer.Close()
		dialer = sshDialer
	}

	if cfg.Username != "" && cfg.Password == "" {
		pass, err := readPassword(cfg.Username, cfg.Host)
		if err != nil {
			return err
		}
		cfg.Password = pass
	}

	return run(ctx, dialer, cfg, logger)
}

// run connects, logs in when credentials are configured, and then
// either executes the -c commands or hands the terminal to the remote.
func run(ctx context.Context, dialer transport.Dialer, cfg *config.Config, logger *util.Logger) error {
	sess, err := telnet.ConnectVia(ctx, dialer, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if cfg.Username != "" {
		if err := sess.Login(cfg.Username, cfg.Password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	if len(cfg.Commands) > 0 {
		for _, command := range cfg.Commands {
			out, err := sess.Execute(command)
			if err != nil {
				return fmt.Errorf("command %q: %w", command, err)
			}
			fmt.Print(out)
		}
	} else {
		logger.Verbose("entering interactive relay; EOF on stdin ends the session")
		if err := sess.Relay(ctx, os.Stdin, os.Stdout); err != nil {
			return err
		}
	}

	logger.Debug("session stats: %s", sess.Metrics().Snapshot())
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
		if cfg.Host == "" {
			return fmt.Errorf("hostname required (use --help for usage)")
		}
	case 1:
		cfg.Host = remaining[0]
	case 2:
		cfg.Host = remaining[0]
		port, err := strconv.Atoi(remaining[1])
		if err != nil {
			return fmt.Errorf("port %q: %w", remaining[1], err)
		}
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments")
	}
	return nil
}

// readPassword asks for the login password on the terminal.  A
// non-terminal stdin (pipe, CI) gets an empty password instead of a
// hung prompt.
func readPassword(user, host string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprintf(os.Stderr, "%s@%s password: ", user, host)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `gotel – Minimal Telnet Client v%s

A prompt-driven telnet client with scripted login and SSH jump hosts.

Usage:
  gotel [options] --prompt <text> <host> [port]       Interactive
  gotel -u user -c cmd --prompt <text> <host>         Scripted
  gotel -T admin@bastion --prompt <text> <host>       Via jump host

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  gotel --prompt 'user@box:~$ ' 10.0.0.5              Connect and relay
  gotel -u ubuntu --prompt 'ubuntu@ubuntu:~$ ' host   Login then relay
  gotel -u admin -c uptime --prompt '# ' sw1 2323     Run one command
  gotel -T ops@bastion --prompt '# ' rack-pdu         Tunnel through SSH

Environment:
  GOTEL_HOST, GOTEL_USER, GOTEL_PASSWORD, GOTEL_PROMPT, GOTEL_TIMEOUT
`)
}
