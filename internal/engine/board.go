package engine

import "fmt"

// Board is a BoardSize x BoardSize grid, indexed board[y][x].
type Board [][]CellType

// NewBoard returns a grid with every cell empty.
func NewBoard() Board {
	b := make(Board, BoardSize)
	for y := range b {
		b[y] = make([]CellType, BoardSize)
	}
	return b
}

// At reads a cell; c must be in bounds.
func (b Board) At(c Coord) CellType { return b[c.Y][c.X] }

// SetType writes a cell, rejecting values outside the enumeration.
func (b Board) SetType(c Coord, t CellType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidState, int(t), c.X, c.Y)
	}
	b[c.Y][c.X] = t
	return nil
}

// set is SetType for values already known to be valid.
func (b Board) set(c Coord, t CellType) { b[c.Y][c.X] = t }

// Count returns how many cells satisfy match.
func (b Board) Count(match func(CellType) bool) int {
	n := 0
	for _, row := range b {
		for _, t := range row {
			if match(t) {
				n++
			}
		}
	}
	return n
}
