package engine

import (
	"errors"
	"testing"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard()
	if len(b) != BoardSize {
		t.Fatalf("rows = %d, want %d", len(b), BoardSize)
	}
	for y, row := range b {
		if len(row) != BoardSize {
			t.Fatalf("row %d has %d cells, want %d", y, len(row), BoardSize)
		}
		for x, c := range row {
			if c != CellEmpty {
				t.Errorf("cell (%d,%d) = %s, want empty", x, y, c)
			}
		}
	}
}

func TestSetTypeRejectsUnknownValues(t *testing.T) {
	b := NewBoard()
	at := Coord{X: 2, Y: 3}

	for _, bad := range []CellType{-1, cellTypeCount, 42} {
		if err := b.SetType(at, bad); !errors.Is(err, ErrInvalidState) {
			t.Errorf("SetType(%d) err = %v, want ErrInvalidState", int(bad), err)
		}
	}
	if b.At(at) != CellEmpty {
		t.Fatalf("rejected write mutated the cell: %s", b.At(at))
	}

	if err := b.SetType(at, CellMiss); err != nil {
		t.Fatalf("SetType(miss): %v", err)
	}
	if b.At(at) != CellMiss {
		t.Fatalf("cell = %s, want miss", b.At(at))
	}
}

func TestParseCellType(t *testing.T) {
	for v := 0; v <= 8; v++ {
		ct, err := ParseCellType(v)
		if err != nil {
			t.Fatalf("ParseCellType(%d): %v", v, err)
		}
		if int(ct) != v {
			t.Fatalf("ParseCellType(%d) = %d", v, int(ct))
		}
	}
	if _, err := ParseCellType(9); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ParseCellType(9) err = %v, want ErrInvalidState", err)
	}
}

func TestStateEnumValues(t *testing.T) {
	want := map[string]int{
		"empty": 0, "ship1x": 1, "ship2x": 2, "ship3x": 3, "ship4x": 4,
		"miss": 5, "wounded": 6, "destroyed": 7, "barrier": 8,
	}
	got := StateEnum()
	if len(got) != len(want) {
		t.Fatalf("enum has %d entries, want %d", len(got), len(want))
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("enum[%s] = %d, want %d", name, got[name], v)
		}
	}
}

func TestAroundClipsAtEdges(t *testing.T) {
	cases := []struct {
		c    Coord
		want int
	}{
		{Coord{0, 0}, 3},
		{Coord{9, 9}, 3},
		{Coord{0, 5}, 5},
		{Coord{4, 4}, 8},
	}
	for _, tc := range cases {
		if got := len(tc.c.Around()); got != tc.want {
			t.Errorf("Around(%v) = %d cells, want %d", tc.c, got, tc.want)
		}
	}
}
