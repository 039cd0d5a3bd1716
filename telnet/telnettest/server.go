// Package telnettest provides an in-process telnet server for tests.
//
// A Server accepts connections on a loopback port and runs a scripted
// handler against each one, so client tests can drive full login and
// command exchanges without a real telnetd.
package telnettest

import (
	"bufio"
	"net"
	"strings"
	"sync"
)

// Handler scripts one server-side conversation.  When it returns, the
// connection is closed, which clients observe as EOF.
type Handler func(c *Conn)

// Server is a loopback telnet server for client tests.
type Server struct {
	ln      net.Listener
	handler Handler
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewServer starts a server on an ephemeral loopback port.
func NewServer(handler Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{ln: ln, handler: handler}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Port returns the listening port.
func (s *Server) Port() int { return s.ln.Addr().(*net.TCPAddr).Port }

// Close stops accepting and waits for in-flight handlers to finish.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.ln.Close()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			s.handler(&Conn{Conn: conn, r: bufio.NewReader(conn)})
		}()
	}
}

// Conn wraps a server-side connection with scripting helpers.
type Conn struct {
	net.Conn
	r *bufio.Reader
}

// Send writes s verbatim.  Errors are swallowed: a handler racing a
// client teardown has nothing useful to do with them.
func (c *Conn) Send(s string) {
	c.Conn.Write([]byte(s)) //nolint:errcheck
}

// SendBytes writes raw bytes, e.g. IAC sequences.
func (c *Conn) SendBytes(b []byte) {
	c.Conn.Write(b) //nolint:errcheck
}

// ReadLine reads one newline-terminated line, with the line ending
// stripped.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
