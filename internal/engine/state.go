package engine

import (
	"fmt"
	"math/rand"
)

// Player owns a board with its own fleet and a blank board the client uses
// to draw its attacks on the opponent. The server never reads FieldEnemy.
type Player struct {
	Field      Board  `json:"field"`
	FieldEnemy Board  `json:"fieldEnemy"`
	Fleet      *Fleet `json:"fleet"`
}

// NewPlayer builds a player with a freshly placed fleet.
func NewPlayer(r *rand.Rand) (*Player, error) {
	field := NewBoard()
	fleet, err := PlaceFleet(r, field)
	if err != nil {
		return nil, err
	}
	return &Player{Field: field, FieldEnemy: NewBoard(), Fleet: fleet}, nil
}

// PlayerWithShips builds a player from explicit ship layouts instead of
// random placement. Each layout lists the cells of one ship.
func PlayerWithShips(layouts ...[]Coord) (*Player, error) {
	field := NewBoard()
	fleet := newFleet()
	for _, cells := range layouts {
		typ, err := ShipType(len(cells))
		if err != nil {
			return nil, err
		}
		ship := &Ship{Orientation: Horizontal}
		if len(cells) > 1 && cells[0].X == cells[1].X {
			ship.Orientation = Vertical
		}
		for _, c := range cells {
			if !c.InBounds() || field.At(c) != CellEmpty {
				return nil, fmt.Errorf("%w: ship cell (%d,%d)", ErrInvalidState, c.X, c.Y)
			}
			field.set(c, typ)
			ship.Decks = append(ship.Decks, Deck{X: c.X, Y: c.Y, Type: typ})
		}
		fleet.add(ship)
	}
	return &Player{Field: field, FieldEnemy: NewBoard(), Fleet: fleet}, nil
}

// Game is the live state of one match: two players and the turn arbiter.
// It is never reused; a finished or interrupted match is replaced whole.
type Game struct {
	Players [2]*Player
	Arbiter Arbiter

	over   bool
	winner Ticket
}

// NewGame places both fleets. Failure is fatal for the game being built.
func NewGame(r *rand.Rand) (*Game, error) {
	g := &Game{}
	for i := range g.Players {
		p, err := NewPlayer(r)
		if err != nil {
			return nil, err
		}
		g.Players[i] = p
	}
	return g, nil
}

// NewGameWith assembles a game from prepared players.
func NewGameWith(p0, p1 *Player) *Game {
	return &Game{Players: [2]*Player{p0, p1}}
}

// Player returns the player bound to slot.
func (g *Game) Player(s Slot) *Player { return g.Players[s] }

// Over reports whether a fleet has been sunk.
func (g *Game) Over() bool { return g.over }

// Winner returns the ticket that sank the last ship.
func (g *Game) Winner() (Ticket, bool) { return g.winner, g.over }

// SeatView is a read-only view for logs and debug endpoints.
type SeatView struct {
	Slot      Slot     `json:"slot"`
	Player    PlayerID `json:"player"`
	Remaining int      `json:"remaining"`
}

// Summary is a compact snapshot that never reveals ship positions.
type Summary struct {
	Active bool       `json:"active"`
	Over   bool       `json:"over"`
	Turn   PlayerID   `json:"turn,omitempty"`
	Seats  []SeatView `json:"seats"`
}

// Summary returns a UI-friendly summary of the current state.
func (g *Game) Summary() Summary {
	s := Summary{Active: g.Arbiter.Active(), Over: g.over}
	if cur, ok := g.Arbiter.Holder(); ok {
		s.Turn = cur.Player
	}
	for _, t := range g.Arbiter.Tickets() {
		s.Seats = append(s.Seats, SeatView{
			Slot:      t.Slot,
			Player:    t.Player,
			Remaining: g.Players[t.Slot].Fleet.Remaining,
		})
	}
	return s
}
