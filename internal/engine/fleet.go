package engine

import (
	"fmt"
	"math/rand"
)

// Deck is one cell of a ship with its own hit state.
type Deck struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Type CellType `json:"type"`
}

func (d Deck) Coord() Coord { return Coord{X: d.X, Y: d.Y} }

type Ship struct {
	Orientation Orientation `json:"orientation"`
	Decks       []Deck      `json:"decks"`
}

func (s *Ship) Size() int { return len(s.Decks) }

// Sunk reports whether every deck has been wounded.
func (s *Ship) Sunk() bool {
	for _, d := range s.Decks {
		if d.Type != CellWounded && d.Type != CellDestroyed {
			return false
		}
	}
	return true
}

func (s *Ship) markDeck(c Coord, t CellType) bool {
	for i := range s.Decks {
		if s.Decks[i].X == c.X && s.Decks[i].Y == c.Y {
			s.Decks[i].Type = t
			return true
		}
	}
	return false
}

// Fleet is every ship one player owns plus a coordinate index into them.
type Fleet struct {
	Ships     []*Ship `json:"fleetList"`
	Remaining int     `json:"number"`

	links map[Coord]*Ship
}

func newFleet() *Fleet {
	return &Fleet{
		Ships: make([]*Ship, 0, FleetSize),
		links: make(map[Coord]*Ship, 20),
	}
}

// ShipAt returns the ship occupying c, if any.
func (f *Fleet) ShipAt(c Coord) (*Ship, bool) {
	s, ok := f.links[c]
	return s, ok
}

func (f *Fleet) add(s *Ship) {
	f.Ships = append(f.Ships, s)
	for _, d := range s.Decks {
		f.links[d.Coord()] = s
	}
	f.Remaining++
}

// PlaceFleet fills an empty board with a full fleet so that no two ships
// touch, not even by a corner. Largest ships go first.
func PlaceFleet(r *rand.Rand, board Board) (*Fleet, error) {
	fleet := newFleet()
	var blocked [BoardSize][BoardSize]bool

	for decks := len(ShipsAmount); decks >= 1; decks-- {
		typ, err := ShipType(decks)
		if err != nil {
			return nil, err
		}
		for count := ShipsAmount[decks-1]; count > 0; count-- {
			order := candidateOrder(r)
			orient := Orientation(r.Intn(2))

			cells, ok := findEmptyPlace(board, &blocked, order, decks, orient)
			if !ok {
				return nil, fmt.Errorf("%w: %d decks %s", ErrNoPlacementFound, decks, orient)
			}

			ship := &Ship{Orientation: orient, Decks: make([]Deck, 0, decks)}
			for _, c := range cells {
				board.set(c, typ)
				ship.Decks = append(ship.Decks, Deck{X: c.X, Y: c.Y, Type: typ})
			}
			fleet.add(ship)

			for _, c := range cells {
				for _, n := range c.Around() {
					blocked[n.Y][n.X] = true
				}
			}
		}
	}
	return fleet, nil
}

// candidateOrder pairs two independent shuffles of the axis: every x from
// the first permutation is combined with every y from the second, x-major.
// The result is not a uniform shuffle of the grid.
func candidateOrder(r *rand.Rand) []Coord {
	xs := shuffledAxis(r)
	ys := shuffledAxis(r)
	out := make([]Coord, 0, BoardSize*BoardSize)
	for _, x := range xs {
		for _, y := range ys {
			out = append(out, Coord{X: x, Y: y})
		}
	}
	return out
}

func shuffledAxis(r *rand.Rand) []int {
	axis := make([]int, BoardSize)
	for i := range axis {
		axis[i] = i
	}
	// Fisher-Yates
	for i := len(axis) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		axis[i], axis[j] = axis[j], axis[i]
	}
	return axis
}

// shipCells returns the in-bounds cells of a ship anchored at origin.
// It may return fewer than decks cells when the ship runs off the edge.
func shipCells(origin Coord, decks int, orient Orientation) []Coord {
	out := make([]Coord, 0, decks)
	for i := 0; i < decks; i++ {
		c := origin
		if orient == Horizontal {
			c.X += i
		} else {
			c.Y += i
		}
		if !c.InBounds() {
			break
		}
		out = append(out, c)
	}
	return out
}

func findEmptyPlace(board Board, blocked *[BoardSize][BoardSize]bool, order []Coord, decks int, orient Orientation) ([]Coord, bool) {
	for _, origin := range order {
		cells := shipCells(origin, decks, orient)
		if len(cells) != decks {
			continue
		}
		free := true
		for _, c := range cells {
			if board.At(c) != CellEmpty || blocked[c.Y][c.X] {
				free = false
				break
			}
		}
		if free {
			return cells, true
		}
	}
	return nil, false
}
