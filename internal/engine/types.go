package engine

import (
	"errors"
	"fmt"
)

// BoardSize is the number of cells along each axis.
const BoardSize = 10

// ShipsAmount holds how many ships of each deck count a fleet has:
// index 0 is one-deckers, index 3 is the four-decker.
var ShipsAmount = [4]int{4, 3, 2, 1}

// FleetSize is the number of ships in a full fleet.
const FleetSize = 10

var (
	ErrInvalidState     = errors.New("invalid cell state")
	ErrNoPlacementFound = errors.New("no empty place for ship")
	ErrSessionFull      = errors.New("session is full")
	ErrUnknownPlayer    = errors.New("unknown player")
)

type CellType int

const (
	CellEmpty CellType = iota
	CellShip1x
	CellShip2x
	CellShip3x
	CellShip4x
	CellMiss
	CellWounded
	CellDestroyed
	CellBarrier

	cellTypeCount
)

var cellTypeNames = [...]string{
	CellEmpty:     "empty",
	CellShip1x:    "ship1x",
	CellShip2x:    "ship2x",
	CellShip3x:    "ship3x",
	CellShip4x:    "ship4x",
	CellMiss:      "miss",
	CellWounded:   "wounded",
	CellDestroyed: "destroyed",
	CellBarrier:   "barrier",
}

// ParseCellType converts a raw enumeration value, rejecting anything outside it.
func ParseCellType(v int) (CellType, error) {
	t := CellType(v)
	if !t.Valid() {
		return CellEmpty, fmt.Errorf("%w: %d", ErrInvalidState, v)
	}
	return t, nil
}

func (t CellType) Valid() bool { return t >= CellEmpty && t < cellTypeCount }

func (t CellType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("cell(%d)", int(t))
	}
	return cellTypeNames[t]
}

// IsShip reports whether t is an intact deck of any size.
func (t CellType) IsShip() bool { return t >= CellShip1x && t <= CellShip4x }

// Resolved reports whether t can no longer be attacked.
func (t CellType) Resolved() bool {
	switch t {
	case CellMiss, CellWounded, CellDestroyed, CellBarrier:
		return true
	}
	return false
}

// ShipType returns the cell type for an intact ship with the given deck count.
func ShipType(decks int) (CellType, error) {
	if decks < 1 || decks > len(ShipsAmount) {
		return CellEmpty, fmt.Errorf("%w: %d decks", ErrInvalidState, decks)
	}
	return CellEmpty + CellType(decks), nil
}

// StateEnum exposes the enumeration by name for clients.
func StateEnum() map[string]int {
	out := make(map[string]int, len(cellTypeNames))
	for i, name := range cellTypeNames {
		out[name] = i
	}
	return out
}

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Coord addresses one cell; X is the column and Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// neighbors lists the eight surrounding offsets.
var neighbors = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Around returns the in-bounds 8-neighbors of c.
func (c Coord) Around() []Coord {
	out := make([]Coord, 0, len(neighbors))
	for _, d := range neighbors {
		n := Coord{X: c.X + d.X, Y: c.Y + d.Y}
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// PlayerID is a stable identifier of a connection (e.g. ConnID string).
type PlayerID = string

// Slot is a ticket position: 0 for the first arrival, 1 for the second.
type Slot int

// Other returns the opposing slot.
func (s Slot) Other() Slot { return 1 - s }

type Ticket struct {
	Slot   Slot     `json:"slot"`
	Player PlayerID `json:"player"`
}
