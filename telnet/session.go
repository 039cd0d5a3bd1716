// Package telnet implements a minimal telnet client: it strips and
// refuses IAC negotiation, detects shell prompts in the incoming byte
// stream, drives the login handshake, and executes remote commands by
// waiting for the configured prompt.
//
// A Session is single-owner: Login, Execute, NormalExecute, and
// ReadUntil share one transport, one filter, and one scan buffer, and
// must never be called concurrently.  Callers that need to share a
// session across goroutines must add their own mutual exclusion.
package telnet

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"gotel/config"
	gerr "gotel/internal/errors"
	"gotel/internal/metrics"
	"gotel/internal/transport"
	"gotel/util"
)

// loginState is the session's position inside the login handshake.
// Transitions are linear; there are no retries on bad credentials.
// A wrong password simply means the command prompt never shows up and
// the wait times out.
type loginState int

const (
	awaitUsernamePrompt loginState = iota
	sendUsername
	awaitPasswordPrompt
	sendPassword
	awaitCommandPrompt
	ready
)

// Session owns a connected telnet transport together with the prompts
// and timeouts that drive it.
type Session struct {
	conn net.Conn
	addr string

	prompts        []string // command prompt(s), matched in order
	usernamePrompt string
	passwordPrompt string
	readTimeout    time.Duration

	filter  Filter
	scanner *promptScanner
	state   loginState

	logger *util.Logger
	stats  *metrics.Collector
}

// Connect dials the configured host over plain TCP and returns a ready
// Session.  The config is validated first; a missing command prompt is
// rejected here rather than mid-handshake.
func Connect(ctx context.Context, cfg *config.Config, logger *util.Logger) (*Session, error) {
	cfg.ApplyDefaults()
	return ConnectVia(ctx, &transport.TCPDialer{Timeout: cfg.ConnectTimeout}, cfg, logger)
}

// ConnectVia is Connect with an explicit dialer, e.g. an SSH-tunnelled
// one.  The dialer's lifecycle stays with the caller; closing the
// session closes only the telnet connection.
func ConnectVia(ctx context.Context, d transport.Dialer, cfg *config.Config, logger *util.Logger) (*Session, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = util.NewLogger(cfg.Verbose)
	}

	addr := util.FormatAddr(cfg.Host, cfg.Port)
	logger.Verbose("connecting to %s", addr)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	conn, err := d.Dial(dialCtx, "tcp", addr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = gerr.ErrTimeout
		}
		return nil, gerr.Wrap("connect", addr, err)
	}

	logger.Verbose("connected to %s", conn.RemoteAddr())

	s := &Session{
		conn:           conn,
		addr:           addr,
		prompts:        cfg.Prompts,
		usernamePrompt: cfg.UsernamePrompt,
		passwordPrompt: cfg.PasswordPrompt,
		readTimeout:    cfg.ReadTimeout,
		scanner:        newPromptScanner(cfg.MaxBuffer),
		logger:         logger,
		stats:          metrics.New(),
	}
	s.stats.ConnectionOpened()
	return s, nil
}

// Close shuts down the transport.  The session must not be used again.
func (s *Session) Close() error {
	if s.conn == nil {
		return gerr.ErrNotConnected
	}
	err := s.conn.Close()
	s.conn = nil
	s.stats.ConnectionClosed()
	return err
}

// Metrics returns the session's statistics collector.
func (s *Session) Metrics() *metrics.Collector { return s.stats }

// ── reader loop ──────────────────────────────────────────────────────

// ReadUntil reads from the transport until prompt appears at the tail
// of the filtered stream and returns everything received up to and
// including the prompt.  The timeout bounds the whole wait, measured
// from the start of the call, not per chunk.
//
// On failure the session's protocol position is indeterminate; callers
// should close and reconnect rather than keep issuing operations.
func (s *Session) ReadUntil(prompt string, timeout time.Duration) (string, error) {
	if prompt == "" {
		return "", gerr.ErrPromptNotConfigured
	}
	block, _, err := s.readUntil([]string{prompt}, timeout)
	return block, err
}

// readUntil is ReadUntil over a prompt set, also reporting which
// prompt matched so Execute knows what to strip.
func (s *Session) readUntil(prompts []string, timeout time.Duration) (string, string, error) {
	if s.conn == nil {
		return "", "", gerr.ErrNotConnected
	}
	label := promptLabel(prompts)

	// A previous read may have already buffered the prompt.
	if block, matched, ok := s.scanner.match(prompts); ok {
		s.stats.PromptMatched()
		return string(block), matched, nil
	}

	deadline := time.Now().Add(timeout)

	bufp := util.GetBuf()
	defer util.PutBuf(bufp)
	buf := *bufp

	for {
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return "", "", gerr.WrapPrompt(label, gerr.Wrap("read", s.addr, err))
		}

		n, err := s.conn.Read(buf)
		if n > 0 {
			s.stats.BytesReceived(int64(n))

			data, replies := s.filter.Filter(buf[:n])
			if len(replies) > 0 {
				if werr := s.sendReplies(replies, deadline); werr != nil {
					return "", "", gerr.WrapPrompt(label, werr)
				}
			}

			if serr := s.scanner.write(data); serr != nil {
				return "", "", gerr.WrapPrompt(label, serr)
			}
			if block, matched, ok := s.scanner.match(prompts); ok {
				s.stats.PromptMatched()
				s.logger.Debug("matched prompt %q after %d byte(s)", matched, len(block))
				return string(block), matched, nil
			}
		}

		if err != nil {
			return "", "", gerr.WrapPrompt(label, s.classifyRead(err))
		}
	}
}

// sendReplies writes option refusals back to the transport before the
// next read, as negotiation answers must not be delayed behind data.
func (s *Session) sendReplies(replies []byte, deadline time.Time) error {
	for i := 0; i+2 < len(replies); i += 3 {
		s.logger.Debug("refusing option %d with %s", replies[i+2], commandName(replies[i+1]))
	}
	s.stats.OptionsRefused(int64(len(replies) / 3))

	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return gerr.Wrap("write", s.addr, err)
	}
	if _, err := s.conn.Write(replies); err != nil {
		return gerr.Wrap("write", s.addr, s.classifyWrite(err))
	}
	s.stats.BytesSent(int64(len(replies)))
	return nil
}

// classifyRead maps a transport read failure onto the session's error
// taxonomy: deadline expiry, remote disconnect, or plain I/O failure.
func (s *Session) classifyRead(err error) error {
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		s.stats.RecordError(gerr.ErrTimeout)
		return gerr.Wrap("read", s.addr, gerr.ErrTimeout)
	case errors.Is(err, io.EOF):
		s.stats.RecordError(gerr.ErrClosed)
		return gerr.Wrap("read", s.addr, gerr.ErrClosed)
	default:
		s.stats.RecordError(err)
		return gerr.Wrap("read", s.addr, err)
	}
}

func (s *Session) classifyWrite(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return gerr.ErrTimeout
	}
	return err
}

// ── login ────────────────────────────────────────────────────────────

// Login drives the three-step handshake: wait for the username prompt,
// send the username, wait for the password prompt, send the password,
// then wait for the command prompt.
//
// There is no credential retry and no dedicated authentication error:
// with a wrong password the command prompt never appears and Login
// fails with a timeout.  Any failure leaves the session connected but
// at an undefined protocol position.
func (s *Session) Login(username, password string) error {
	s.state = awaitUsernamePrompt

	for s.state != ready {
		switch s.state {
		case awaitUsernamePrompt:
			if _, err := s.ReadUntil(s.usernamePrompt, s.readTimeout); err != nil {
				return err
			}
			s.state = sendUsername

		case sendUsername:
			s.logger.Verbose("sending username %q", username)
			if err := s.writeLine(username); err != nil {
				return err
			}
			s.state = awaitPasswordPrompt

		case awaitPasswordPrompt:
			if _, err := s.ReadUntil(s.passwordPrompt, s.readTimeout); err != nil {
				return err
			}
			s.state = sendPassword

		case sendPassword:
			s.logger.Verbose("sending password")
			if err := s.writeLine(password); err != nil {
				return err
			}
			s.state = awaitCommandPrompt

		case awaitCommandPrompt:
			if _, _, err := s.readUntil(s.prompts, s.readTimeout); err != nil {
				return err
			}
			s.state = ready
		}
	}

	s.logger.Verbose("login complete")
	return nil
}

// ── command execution ────────────────────────────────────────────────

// NormalExecute sends the command and returns the raw output block
// verbatim: the echoed command line and the trailing prompt are left
// in place for the caller to post-process.
func (s *Session) NormalExecute(command string) (string, error) {
	block, _, err := s.run(command)
	return block, err
}

// Execute sends the command and returns only its output.  The echoed
// command line is stripped from the front of the block, line by line
// for multi-line commands; the matched prompt is stripped from the
// end.  If the remote does not echo, stripping stops at the first
// non-matching line and only the prompt is removed.
func (s *Session) Execute(command string) (string, error) {
	block, matched, err := s.run(command)
	if err != nil {
		return "", err
	}
	return stripEcho(block, command, matched), nil
}

func (s *Session) run(command string) (string, string, error) {
	if len(s.prompts) == 0 {
		return "", "", gerr.ErrPromptNotConfigured
	}
	s.logger.Verbose("executing %q", command)
	if err := s.writeLine(command); err != nil {
		return "", "", err
	}
	block, matched, err := s.readUntil(s.prompts, s.readTimeout)
	if err != nil {
		return "", "", err
	}
	s.stats.CommandExecuted()
	return block, matched, nil
}

// writeLine sends line to the remote, appending a newline when the
// caller did not supply one.
func (s *Session) writeLine(line string) error {
	if s.conn == nil {
		return gerr.ErrNotConnected
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return gerr.Wrap("write", s.addr, err)
	}
	n, err := s.conn.Write([]byte(line))
	s.stats.BytesSent(int64(n))
	if err != nil {
		s.stats.RecordError(err)
		return gerr.Wrap("write", s.addr, s.classifyWrite(err))
	}
	return nil
}

// Relay hands the raw transport to an interactive reader/writer pair
// (typically stdin/stdout) until EOF or context cancellation.  The
// session must not be used for prompt-driven operations afterwards.
func (s *Session) Relay(ctx context.Context, r io.Reader, w io.Writer) error {
	if s.conn == nil {
		return gerr.ErrNotConnected
	}
	// Clear any deadline left behind by a prompt wait.
	if err := s.conn.SetDeadline(time.Time{}); err != nil {
		return gerr.Wrap("relay", s.addr, err)
	}
	return util.BidirectionalCopy(ctx, s.conn, r, w)
}

// ── helpers ──────────────────────────────────────────────────────────

// stripEcho removes the echoed command lines from the front of a block
// and the matched prompt from its end.  Echo lines are dropped one at
// a time while they keep matching the corresponding command line;
// stripping stops at the first mismatch, so a non-echoing remote just
// loses the trailing prompt.
func stripEcho(block, command, prompt string) string {
	out := strings.TrimSuffix(block, prompt)

	rest := out
	for _, want := range strings.Split(strings.TrimSuffix(command, "\n"), "\n") {
		line, tail, found := strings.Cut(rest, "\n")
		if !found || strings.TrimRight(line, "\r") != strings.TrimRight(want, "\r") {
			break
		}
		rest = tail
	}
	return rest
}

// promptLabel names a prompt set for error reporting.
func promptLabel(prompts []string) string {
	if len(prompts) == 1 {
		return prompts[0]
	}
	return strings.Join(prompts, "|")
}
