// Package transport provides abstractions for network connection
// establishment.  Transports handle the "how" of reaching the telnet
// daemon (a direct TCP dial or a hop through an SSH jump host),
// independent of the protocol conversation that follows, which is the
// telnet package's job.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through an encrypted gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}
