package hub

import (
	"log/slog"
	"sync"

	"seabattle/internal/netx"
	"seabattle/internal/protocol"
)

// Router delivers envelopes to connections by ConnID. Each connection has
// its own queue drained by one writer goroutine, so envelopes arrive in the
// order they were sent.
type Router struct {
	queueSize int
	logger    *slog.Logger

	mu    sync.RWMutex
	peers map[protocol.ConnID]*peer
}

type outbound struct {
	env    protocol.Envelope
	hangup bool
}

type peer struct {
	conn netx.Conn
	out  chan outbound
	done chan struct{}
	once sync.Once
}

func (p *peer) stop() {
	p.once.Do(func() {
		close(p.done)
		_ = p.conn.Close()
	})
}

func NewRouter(queueSize int, logger *slog.Logger) *Router {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{queueSize: queueSize, logger: logger, peers: make(map[protocol.ConnID]*peer)}
}

// Register starts the writer for conn. A previous connection with the same
// id is closed.
func (r *Router) Register(conn netx.Conn) {
	p := &peer{
		conn: conn,
		out:  make(chan outbound, r.queueSize),
		done: make(chan struct{}),
	}
	r.mu.Lock()
	if old, ok := r.peers[conn.ID()]; ok {
		old.stop()
	}
	r.peers[conn.ID()] = p
	r.mu.Unlock()
	go r.writeLoop(p)
}

// Unregister closes a connection immediately, dropping anything queued.
func (r *Router) Unregister(id protocol.ConnID) {
	r.mu.Lock()
	p, ok := r.peers[id]
	if ok {
		delete(r.peers, id)
	}
	r.mu.Unlock()
	if ok {
		p.stop()
	}
}

// Send queues env for id. Unknown ids are ignored. A peer whose queue is
// full is too slow to keep up and gets disconnected.
func (r *Router) Send(id protocol.ConnID, env protocol.Envelope) {
	r.enqueue(id, outbound{env: env})
}

// Hangup closes id after everything queued before it has been written.
func (r *Router) Hangup(id protocol.ConnID) {
	r.enqueue(id, outbound{hangup: true})
}

// Len returns the number of registered connections.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

func (r *Router) enqueue(id protocol.ConnID, m outbound) {
	r.mu.RLock()
	p, ok := r.peers[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case p.out <- m:
	case <-p.done:
	default:
		r.logger.Warn("outbound queue full, dropping connection", "conn", id)
		r.drop(p)
	}
}

// drop removes p if it is still the registered peer for its id.
func (r *Router) drop(p *peer) {
	r.mu.Lock()
	if cur, ok := r.peers[p.conn.ID()]; ok && cur == p {
		delete(r.peers, p.conn.ID())
	}
	r.mu.Unlock()
	p.stop()
}

func (r *Router) writeLoop(p *peer) {
	for {
		select {
		case <-p.done:
			return
		case m := <-p.out:
			if m.hangup {
				r.drop(p)
				return
			}
			if err := p.conn.Send(m.env); err != nil {
				if !netx.IsNormalClose(err) {
					r.logger.Warn("write error", "conn", p.conn.ID(), "error", err)
				}
				r.drop(p)
				return
			}
		}
	}
}
