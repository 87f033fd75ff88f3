package session

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"seabattle/internal/engine"
	"seabattle/internal/metrics"
	"seabattle/internal/protocol"
)

// Command is anything the controller goroutine can process.
type Command interface{ command() }

// Connect asks for a seat for a newly accepted connection.
type Connect struct{ Conn protocol.ConnID }

// Ready is the client's acknowledgment that it is listening; the controller
// answers with the initialization payload.
type Ready struct{ Conn protocol.ConnID }

// Attack fires at (X, Y) on the opponent's board.
type Attack struct {
	Conn protocol.ConnID
	X, Y int
}

// Disconnect reports that a connection is gone.
type Disconnect struct{ Conn protocol.ConnID }

type summaryQuery struct{ reply chan<- engine.Summary }

func (Connect) command()      {}
func (Ready) command()        {}
func (Attack) command()       {}
func (Disconnect) command()   {}
func (summaryQuery) command() {}

func (c *Controller) handle(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case Connect:
		c.connect(cmd.Conn)
	case Ready:
		c.ready(cmd.Conn)
	case Attack:
		return c.attack(ctx, cmd)
	case Disconnect:
		return c.disconnect(cmd.Conn)
	case summaryQuery:
		cmd.reply <- c.game.Summary()
	}
	return nil
}

func (c *Controller) connect(id protocol.ConnID) {
	ticket, err := c.game.Arbiter.IssueTicket(string(id))
	if errors.Is(err, engine.ErrSessionFull) {
		c.logger.Info("session full, rejecting connection", "conn", id)
		c.metrics.Connection(false)
		c.out.Send(id, protocol.MustEnvelope(protocol.EvSessionFull,
			protocol.SessionFull{Error: protocol.ServerFullMessage}))
		c.out.Hangup(id)
		return
	}
	c.members[id] = ticket.Slot
	c.metrics.Connection(true)
	c.metrics.PlayersActive(len(c.members))
	c.logger.Info("player connected to game", "conn", id, "slot", ticket.Slot,
		"active", c.game.Arbiter.Active())
}

func (c *Controller) ready(id protocol.ConnID) {
	slot, ok := c.members[id]
	if !ok {
		return
	}
	env, err := c.initialization(id, slot)
	if err != nil {
		c.logger.Error("build initialization", "conn", id, "error", err)
		return
	}
	c.out.Send(id, env)
}

func (c *Controller) attack(ctx context.Context, cmd Attack) error {
	start := time.Now()
	slot, seated := c.members[cmd.Conn]

	_, span := c.tracer.Start(ctx, "session.attack",
		trace.WithAttributes(
			attribute.String("seabattle.conn", string(cmd.Conn)),
			attribute.Int("seabattle.x", cmd.X),
			attribute.Int("seabattle.y", cmd.Y),
		))
	defer span.End()

	if !seated {
		c.metrics.Attack(metrics.OutcomeIgnored, time.Since(start))
		span.SetAttributes(attribute.String("seabattle.outcome", metrics.OutcomeIgnored))
		return nil
	}
	res, ok := c.game.ResolveAttack(slot, cmd.X, cmd.Y)
	if !ok {
		c.logger.Debug("attack ignored", "conn", cmd.Conn, "slot", slot, "x", cmd.X, "y", cmd.Y)
		c.metrics.Attack(metrics.OutcomeIgnored, time.Since(start))
		span.SetAttributes(attribute.String("seabattle.outcome", metrics.OutcomeIgnored))
		return nil
	}

	whoTurns := protocol.ConnID(res.WhoTurns.Player)
	whoNext := protocol.ConnID(res.WhoNext.Player)
	for _, d := range res.Deltas {
		c.broadcast(protocol.MustEnvelope(protocol.EvAttackResult, protocol.AttackResult{
			WhoTurns: whoTurns,
			WhoNext:  whoNext,
			X:        d.X,
			Y:        d.Y,
			Type:     int(d.Type),
		}))
	}

	outcome := metrics.OutcomeMiss
	switch {
	case res.Sunk != nil:
		outcome = metrics.OutcomeSink
		c.logger.Info("ship destroyed", "attacker", whoTurns, "decks", res.Sunk.Size(),
			"remaining", c.game.Player(slot.Other()).Fleet.Remaining)
	case res.Hit:
		outcome = metrics.OutcomeHit
	}
	c.metrics.Attack(outcome, time.Since(start))
	span.SetAttributes(attribute.String("seabattle.outcome", outcome))

	if res.GameOver {
		winner := protocol.ConnID(res.Winner.Player)
		c.logger.Info("player wins", "winner", winner, "duration", time.Since(c.started))
		c.broadcast(protocol.MustEnvelope(protocol.EvSessionEnded, protocol.SessionEnded{
			Status: protocol.StatusEnd,
			Winner: winner,
		}))
		c.metrics.SessionEnded(protocol.StatusEnd)
		if err := c.reset(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

func (c *Controller) disconnect(id protocol.ConnID) error {
	if _, ok := c.members[id]; !ok {
		return nil
	}
	if !c.game.Arbiter.Active() {
		// the lone waiting player left; free the seat
		c.logger.Info("waiting player left", "conn", id)
		delete(c.members, id)
		return c.reset()
	}
	c.logger.Info("player disconnected", "conn", id)
	c.broadcast(protocol.MustEnvelope(protocol.EvSessionEnded, protocol.SessionEnded{
		Status:          protocol.StatusInterrupted,
		WhoDisconnected: id,
	}))
	c.metrics.SessionEnded(protocol.StatusInterrupted)
	return c.reset()
}
