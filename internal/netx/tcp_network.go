package netx

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"seabattle/internal/protocol"
)

// TCP accepts raw TCP clients speaking the length-prefixed codec.
type TCP struct {
	addr         string
	writeTimeout time.Duration
	logger       *slog.Logger

	accept chan Conn
	mu     sync.Mutex
	ln     net.Listener
}

func NewTCP(addr string, writeTimeout time.Duration, logger *slog.Logger) *TCP {
	if logger == nil {
		logger = slog.Default()
	}
	return &TCP{
		addr:         addr,
		writeTimeout: writeTimeout,
		logger:       logger,
		accept:       make(chan Conn, 16),
	}
}

func (t *TCP) Accept() <-chan Conn { return t.accept }

// Addr returns the bound address once Start has succeeded.
func (t *TCP) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln == nil {
		return nil
	}
	return t.ln.Addr()
}

func (t *TCP) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.ln = ln
	t.mu.Unlock()
	t.logger.Info("tcp listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	// accept loop
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				select {
				case <-ctx.Done():
					return
				default:
				}
				t.logger.Warn("tcp accept error", "error", err)
				continue
			}
			if tc, ok := c.(*net.TCPConn); ok {
				_ = tc.SetNoDelay(true)
			}
			conn := newTCPConn(protocol.NewConnID(), c, t.writeTimeout)
			select {
			case t.accept <- conn:
			case <-ctx.Done():
				_ = c.Close()
				return
			}
		}
	}()
	return nil
}

func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln != nil {
		return t.ln.Close()
	}
	return nil
}

// DialTCP connects a client to a TCP network.
func DialTCP(ctx context.Context, addr string) (Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return newTCPConn(protocol.NewConnID(), c, 0), nil
}

type tcpConn struct {
	id           protocol.ConnID
	c            net.Conn
	r            *bufio.Reader
	writeTimeout time.Duration
}

func newTCPConn(id protocol.ConnID, c net.Conn, writeTimeout time.Duration) *tcpConn {
	return &tcpConn{id: id, c: c, r: bufio.NewReader(c), writeTimeout: writeTimeout}
}

func (t *tcpConn) ID() protocol.ConnID { return t.id }

func (t *tcpConn) Send(env protocol.Envelope) error {
	if t.writeTimeout > 0 {
		_ = t.c.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	return WriteFrame(t.c, env)
}

func (t *tcpConn) Recv() (protocol.Envelope, error) { return ReadFrame(t.r) }

func (t *tcpConn) Close() error { return t.c.Close() }
