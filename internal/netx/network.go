package netx

import (
	"context"
	"errors"

	"seabattle/internal/protocol"
)

// ErrClosed is returned by Send and Recv once a connection is closed.
var ErrClosed = errors.New("connection closed")

// Conn is one client connection carrying envelopes. Send and Recv may be
// used from two different goroutines; neither is safe for concurrent use
// with itself.
type Conn interface {
	ID() protocol.ConnID
	Send(env protocol.Envelope) error
	Recv() (protocol.Envelope, error)
	Close() error
}

// Network accepts client connections and hands them out on Accept().
type Network interface {
	Accept() <-chan Conn
	Start(ctx context.Context) error
	Close() error
}
