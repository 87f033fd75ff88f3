package netx

import (
	"context"
	"sync"

	"seabattle/internal/protocol"
)

// Inproc is a loopback network: Dial returns the client end of a pipe whose
// server end is delivered on Accept(). Handy for tests without sockets.
type Inproc struct {
	accept chan Conn
	closed chan struct{}
	once   sync.Once
}

func NewInproc() *Inproc {
	return &Inproc{
		accept: make(chan Conn, 16),
		closed: make(chan struct{}),
	}
}

func (n *Inproc) Accept() <-chan Conn { return n.accept }

func (n *Inproc) Start(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = n.Close()
		case <-n.closed:
		}
	}()
	return nil
}

func (n *Inproc) Close() error {
	n.once.Do(func() { close(n.closed) })
	return nil
}

// Dial connects a new client and returns its end of the pipe.
func (n *Inproc) Dial(ctx context.Context) (Conn, error) {
	server, client := Pipe(protocol.NewConnID())
	select {
	case n.accept <- server:
		return client, nil
	case <-n.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pipe returns two connected ends sharing one id. Closing either end closes
// both; envelopes already queued stay readable.
func Pipe(id protocol.ConnID) (Conn, Conn) {
	ab := make(chan protocol.Envelope, 1024)
	ba := make(chan protocol.Envelope, 1024)
	shared := &pipeState{done: make(chan struct{})}
	a := &pipeConn{id: id, in: ba, out: ab, state: shared}
	b := &pipeConn{id: id, in: ab, out: ba, state: shared}
	return a, b
}

type pipeState struct {
	done chan struct{}
	once sync.Once
}

type pipeConn struct {
	id    protocol.ConnID
	in    <-chan protocol.Envelope
	out   chan<- protocol.Envelope
	state *pipeState
}

func (p *pipeConn) ID() protocol.ConnID { return p.id }

func (p *pipeConn) Send(env protocol.Envelope) error {
	select {
	case <-p.state.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- env:
		return nil
	case <-p.state.done:
		return ErrClosed
	}
}

func (p *pipeConn) Recv() (protocol.Envelope, error) {
	// drain what was sent before a close
	select {
	case env := <-p.in:
		return env, nil
	default:
	}
	select {
	case env := <-p.in:
		return env, nil
	case <-p.state.done:
		select {
		case env := <-p.in:
			return env, nil
		default:
		}
		return protocol.Envelope{}, ErrClosed
	}
}

func (p *pipeConn) Close() error {
	p.state.once.Do(func() { close(p.state.done) })
	return nil
}
