package hub

import (
	"context"
	"log/slog"

	"seabattle/internal/netx"
	"seabattle/internal/protocol"
	"seabattle/internal/session"
)

// Hub attaches connections from every network to the session controller:
// it registers each one with the Router, asks the controller for a seat and
// pumps inbound envelopes into controller commands.
type Hub struct {
	ctrl     *session.Controller
	router   *Router
	networks []netx.Network
	logger   *slog.Logger
}

func New(ctrl *session.Controller, router *Router, logger *slog.Logger, networks ...netx.Network) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{ctrl: ctrl, router: router, networks: networks, logger: logger}
}

func (h *Hub) Start(ctx context.Context) error {
	for _, nw := range h.networks {
		if err := nw.Start(ctx); err != nil {
			return err
		}
		go h.acceptLoop(ctx, nw)
	}
	return nil
}

func (h *Hub) acceptLoop(ctx context.Context, nw netx.Network) {
	for {
		select {
		case <-ctx.Done():
			return
		case conn := <-nw.Accept():
			h.attach(ctx, conn)
		}
	}
}

func (h *Hub) attach(ctx context.Context, conn netx.Conn) {
	h.router.Register(conn)
	if err := h.ctrl.Submit(ctx, session.Connect{Conn: conn.ID()}); err != nil {
		h.router.Unregister(conn.ID())
		return
	}
	go h.readPump(ctx, conn)
}

func (h *Hub) readPump(ctx context.Context, conn netx.Conn) {
	id := conn.ID()
	defer func() {
		h.router.Unregister(id)
		_ = h.ctrl.Submit(ctx, session.Disconnect{Conn: id})
	}()

	for {
		env, err := conn.Recv()
		if err != nil {
			if !netx.IsNormalClose(err) {
				h.logger.Debug("read error", "conn", id, "error", err)
			}
			return
		}

		var cmd session.Command
		switch env.Type {
		case protocol.EvReady:
			cmd = session.Ready{Conn: id}
		case protocol.EvAttackRequest:
			var req protocol.AttackRequest
			if err := env.Decode(&req); err != nil {
				h.logger.Debug("bad attack request", "conn", id, "error", err)
				continue
			}
			cmd = session.Attack{Conn: id, X: req.X, Y: req.Y}
		default:
			h.logger.Debug("unknown event", "conn", id, "type", env.Type)
			continue
		}
		if err := h.ctrl.Submit(ctx, cmd); err != nil {
			return
		}
	}
}
