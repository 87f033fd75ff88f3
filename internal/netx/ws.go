package netx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"seabattle/internal/protocol"
)

// WebSocket upgrades HTTP requests and delivers each upgraded socket on
// Accept(). It is an http.Handler meant to be mounted on a router.
type WebSocket struct {
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	readTimeout  time.Duration
	logger       *slog.Logger

	accept chan Conn
	closed chan struct{}
	once   sync.Once
}

type WebSocketConfig struct {
	// WriteTimeout bounds each outbound frame. Zero disables it.
	WriteTimeout time.Duration
	// ReadTimeout is how long a silent client may go without answering a
	// ping. Zero disables pings and read deadlines.
	ReadTimeout time.Duration
	// CheckOrigin overrides gorilla's same-origin check when set.
	CheckOrigin func(r *http.Request) bool
}

func NewWebSocket(cfg WebSocketConfig, logger *slog.Logger) *WebSocket {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocket{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		writeTimeout: cfg.WriteTimeout,
		readTimeout:  cfg.ReadTimeout,
		logger:       logger,
		accept:       make(chan Conn, 16),
		closed:       make(chan struct{}),
	}
}

func (w *WebSocket) Accept() <-chan Conn { return w.accept }

func (w *WebSocket) Start(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = w.Close()
		case <-w.closed:
		}
	}()
	return nil
}

func (w *WebSocket) Close() error {
	w.once.Do(func() { close(w.closed) })
	return nil
}

func (w *WebSocket) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	select {
	case <-w.closed:
		http.Error(rw, "server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	c, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		w.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn := newWSConn(protocol.NewConnID(), c, w.writeTimeout, w.readTimeout)

	select {
	case w.accept <- conn:
	case <-w.closed:
		_ = conn.Close()
	}
}

// DialWebSocket connects a client to a WebSocket network, e.g.
// ws://localhost:1234/ws.
func DialWebSocket(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return newWSConn(protocol.NewConnID(), c, 0, 0), nil
}

type wsConn struct {
	id           protocol.ConnID
	c            *websocket.Conn
	writeTimeout time.Duration
	readTimeout  time.Duration

	done chan struct{}
	once sync.Once
}

func newWSConn(id protocol.ConnID, c *websocket.Conn, writeTimeout, readTimeout time.Duration) *wsConn {
	wc := &wsConn{
		id:           id,
		c:            c,
		writeTimeout: writeTimeout,
		readTimeout:  readTimeout,
		done:         make(chan struct{}),
	}
	if readTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(readTimeout))
		c.SetPongHandler(func(string) error {
			return c.SetReadDeadline(time.Now().Add(readTimeout))
		})
		go wc.pingLoop(readTimeout * 9 / 10)
	}
	return wc
}

func (w *wsConn) ID() protocol.ConnID { return w.id }

func (w *wsConn) Send(env protocol.Envelope) error {
	if w.writeTimeout > 0 {
		_ = w.c.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	return w.c.WriteJSON(env)
}

func (w *wsConn) Recv() (protocol.Envelope, error) {
	var env protocol.Envelope
	if err := w.c.ReadJSON(&env); err != nil {
		return env, err
	}
	return env, nil
}

func (w *wsConn) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		deadline := time.Now().Add(time.Second)
		_ = w.c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = w.c.Close()
	})
	return err
}

func (w *wsConn) pingLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(every)
			if err := w.c.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// IsNormalClose reports whether err is an orderly end of a connection
// rather than a transport failure worth logging.
func IsNormalClose(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived)
}
