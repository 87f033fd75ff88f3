package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"seabattle/internal/engine"
	"seabattle/internal/protocol"
)

var cellGlyphs = map[engine.CellType]byte{
	engine.CellEmpty:     '.',
	engine.CellShip1x:    '#',
	engine.CellShip2x:    '#',
	engine.CellShip3x:    '#',
	engine.CellShip4x:    '#',
	engine.CellMiss:      'o',
	engine.CellWounded:   'x',
	engine.CellDestroyed: 'X',
	engine.CellBarrier:   ',',
}

// client tracks what a terminal player knows: its own board as sent by the
// server and the enemy board rebuilt from attack results.
type client struct {
	mu    sync.Mutex
	out   io.Writer
	me    protocol.ConnID
	turn  protocol.ConnID
	own   engine.Board
	enemy engine.Board
	fleet int
}

func newClient(out io.Writer) *client {
	return &client{out: out}
}

// handle applies one server event. done is true once the session is over
// for this client.
func (c *client) handle(env protocol.Envelope) (done bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch env.Type {
	case protocol.EvSessionFull:
		var p protocol.SessionFull
		if err := env.Decode(&p); err != nil {
			return true, err
		}
		fmt.Fprintln(c.out, p.Error)
		return true, nil

	case protocol.EvInitialization:
		var p protocol.Initialization
		if err := env.Decode(&p); err != nil {
			return false, err
		}
		var player engine.Player
		if err := json.Unmarshal(p.PlayerState, &player); err != nil {
			return false, fmt.Errorf("decode player state: %w", err)
		}
		c.me = p.ConnectionID
		c.turn = p.CurrentTurnConnectionID
		c.own = player.Field
		c.enemy = engine.NewBoard()
		if player.Fleet != nil {
			c.fleet = player.Fleet.Remaining
		}
		c.render()
		c.printTurn()

	case protocol.EvAttackResult:
		var p protocol.AttackResult
		if err := env.Decode(&p); err != nil {
			return false, err
		}
		if c.own == nil {
			return false, nil
		}
		typ, err := engine.ParseCellType(p.Type)
		if err != nil {
			return false, err
		}
		board, who := c.own, "enemy"
		if p.WhoTurns == c.me {
			board, who = c.enemy, "you"
		}
		at := engine.Coord{X: p.X, Y: p.Y}
		if !at.InBounds() {
			return false, fmt.Errorf("attack result off the board: (%d,%d)", p.X, p.Y)
		}
		if err := board.SetType(at, typ); err != nil {
			return false, err
		}
		// misses revealed around a sunk ship keep the turn and are not announced
		if typ != engine.CellMiss || p.WhoTurns != p.WhoNext {
			fmt.Fprintf(c.out, "%s -> %s: %s\n", who, cellName(p.X, p.Y), typ)
		}
		if c.turn != p.WhoNext {
			c.turn = p.WhoNext
			c.printTurn()
		}

	case protocol.EvSessionEnded:
		var p protocol.SessionEnded
		if err := env.Decode(&p); err != nil {
			return true, err
		}
		switch {
		case p.Status == protocol.StatusInterrupted:
			fmt.Fprintln(c.out, "game interrupted: opponent left")
		case p.Winner == c.me:
			fmt.Fprintln(c.out, "you won!")
		default:
			fmt.Fprintln(c.out, "you lost")
		}
		return true, nil
	}
	return false, nil
}

// myTurn reports whether the server last handed the turn to this client.
func (c *client) myTurn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.me != "" && c.turn == c.me
}

func (c *client) show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.own == nil {
		fmt.Fprintln(c.out, "(waiting for initialization)")
		return
	}
	c.render()
}

func (c *client) printTurn() {
	if c.turn == c.me {
		fmt.Fprintln(c.out, "your turn")
	} else if c.turn != "" {
		fmt.Fprintln(c.out, "opponent's turn")
	}
}

// render prints both boards side by side; c.mu must be held.
func (c *client) render() {
	var b strings.Builder
	header := "   " + columnLabels()
	fmt.Fprintf(&b, "%-24s %s\n", "  yours", "  enemy")
	fmt.Fprintf(&b, "%-24s %s\n", header, header)
	for y := 0; y < engine.BoardSize; y++ {
		fmt.Fprintf(&b, "%-24s %s\n", row(c.own, y), row(c.enemy, y))
	}
	io.WriteString(c.out, b.String())
}

func columnLabels() string {
	var b strings.Builder
	for x := 0; x < engine.BoardSize; x++ {
		b.WriteByte(byte('A' + x))
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

func row(board engine.Board, y int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d ", y+1)
	for x := 0; x < engine.BoardSize; x++ {
		glyph, ok := cellGlyphs[board.At(engine.Coord{X: x, Y: y})]
		if !ok {
			glyph = '?'
		}
		b.WriteByte(glyph)
		if x < engine.BoardSize-1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func cellName(x, y int) string {
	return fmt.Sprintf("%c%d", 'A'+x, y+1)
}

// parseTarget accepts either "x y" with zero-based numbers or a single
// cell name such as "B7".
func parseTarget(args []string) (engine.Coord, error) {
	switch len(args) {
	case 1:
		s := strings.ToUpper(args[0])
		if len(s) < 2 || s[0] < 'A' || s[0] >= byte('A'+engine.BoardSize) {
			return engine.Coord{}, fmt.Errorf("bad cell %q", args[0])
		}
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 || n > engine.BoardSize {
			return engine.Coord{}, fmt.Errorf("bad cell %q", args[0])
		}
		return engine.Coord{X: int(s[0] - 'A'), Y: n - 1}, nil
	case 2:
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return engine.Coord{}, fmt.Errorf("bad x %q", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return engine.Coord{}, fmt.Errorf("bad y %q", args[1])
		}
		c := engine.Coord{X: x, Y: y}
		if !c.InBounds() {
			return engine.Coord{}, fmt.Errorf("(%d,%d) is off the board", x, y)
		}
		return c, nil
	default:
		return engine.Coord{}, fmt.Errorf("expected <x> <y> or a cell like B7")
	}
}
