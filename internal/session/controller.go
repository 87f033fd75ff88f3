package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"seabattle/internal/engine"
	"seabattle/internal/metrics"
	"seabattle/internal/protocol"
)

// Outbox delivers envelopes to connections. Implementations must keep the
// per-connection order of Send calls and must not block for long.
type Outbox interface {
	Send(to protocol.ConnID, env protocol.Envelope)
	// Hangup closes a connection once everything queued for it is sent.
	Hangup(id protocol.ConnID)
}

// GameFactory builds the game for a new session.
type GameFactory func(r *rand.Rand) (*engine.Game, error)

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer
	// Rand drives fleet placement. Defaults to a time-seeded source.
	Rand *rand.Rand
	// NewGame replaces random placement, mostly for tests.
	NewGame GameFactory
	// QueueSize bounds pending commands. Defaults to 256.
	QueueSize int
}

// Controller owns the single live game. All state is touched only by the
// goroutine running Run; everyone else talks to it through Submit.
//
// Dependencies:
//   - engine: boards, fleets, turn arbiter, attack resolution
//   - protocol: event names and payloads
//
// No direct network I/O here; envelopes leave through the Outbox.
type Controller struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	rng     *rand.Rand
	newGame GameFactory
	out     Outbox

	cmds chan Command

	game    *engine.Game
	members map[protocol.ConnID]engine.Slot
	started time.Time
}

// New builds the controller and its first game. A placement failure is
// returned as is (wrapping engine.ErrNoPlacementFound).
func New(out Outbox, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("seabattle/session")
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.NewGame == nil {
		opts.NewGame = engine.NewGame
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	c := &Controller{
		logger:  opts.Logger,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		rng:     opts.Rand,
		newGame: opts.NewGame,
		out:     out,
		cmds:    make(chan Command, opts.QueueSize),
	}
	if err := c.reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Run processes commands one at a time until ctx ends or a replacement game
// cannot be built.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-c.cmds:
			if err := c.handle(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

// Submit queues a command for the controller goroutine.
func (c *Controller) Submit(ctx context.Context, cmd Command) error {
	select {
	case c.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Summary asks the controller goroutine for a view of the live game.
func (c *Controller) Summary(ctx context.Context) (engine.Summary, error) {
	reply := make(chan engine.Summary, 1)
	if err := c.Submit(ctx, summaryQuery{reply: reply}); err != nil {
		return engine.Summary{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return engine.Summary{}, ctx.Err()
	}
}

// reset discards the current game, hangs up its players and builds a fresh
// one.
func (c *Controller) reset() error {
	for id := range c.members {
		c.out.Hangup(id)
	}
	c.members = make(map[protocol.ConnID]engine.Slot, 2)
	c.metrics.PlayersActive(0)

	g, err := c.newGame(c.rng)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	c.game = g
	c.started = time.Now()
	return nil
}

// broadcast sends env to every seated player in slot order.
func (c *Controller) broadcast(env protocol.Envelope) {
	for _, t := range c.game.Arbiter.Tickets() {
		c.out.Send(protocol.ConnID(t.Player), env)
	}
}
