package engine

import (
	"math/rand"
	"testing"
)

// duel returns a game where alice (slot 0) attacks bob's board built from
// layouts, and bob's own target is a single one-decker far away.
func duel(t *testing.T, layouts ...[]Coord) *Game {
	t.Helper()
	alice, err := PlayerWithShips([]Coord{{9, 9}})
	if err != nil {
		t.Fatal(err)
	}
	bob, err := PlayerWithShips(layouts...)
	if err != nil {
		t.Fatal(err)
	}
	g := NewGameWith(alice, bob)
	g.Arbiter.IssueTicket("alice")
	g.Arbiter.IssueTicket("bob")
	return g
}

func TestAttackSinkTwoDecker(t *testing.T) {
	g := duel(t, []Coord{{3, 4}, {4, 4}}, []Coord{{0, 0}})
	bob := g.Player(1)

	res, ok := g.ResolveAttack(0, 3, 4)
	if !ok {
		t.Fatal("first attack ignored")
	}
	if !res.Hit || res.Sunk != nil {
		t.Fatalf("hit=%v sunk=%v, want wound only", res.Hit, res.Sunk)
	}
	if len(res.Deltas) != 1 || res.Deltas[0] != (Delta{X: 3, Y: 4, Type: CellWounded}) {
		t.Fatalf("deltas = %+v", res.Deltas)
	}
	if res.WhoTurns.Player != "alice" || res.WhoNext.Player != "alice" {
		t.Fatalf("turn moved after a hit: %+v -> %+v", res.WhoTurns, res.WhoNext)
	}

	res, ok = g.ResolveAttack(0, 4, 4)
	if !ok {
		t.Fatal("second attack ignored")
	}
	if res.Sunk == nil {
		t.Fatal("ship not sunk")
	}
	if res.WhoNext.Player != "alice" {
		t.Fatalf("turn passed after the sinking hit: %+v", res.WhoNext)
	}
	if res.Deltas[0] != (Delta{X: 4, Y: 4, Type: CellWounded}) {
		t.Fatalf("first delta = %+v, want the wound at (4,4)", res.Deltas[0])
	}

	misses := map[Coord]bool{}
	destroyed := map[Coord]bool{}
	for _, d := range res.Deltas[1:] {
		switch d.Type {
		case CellMiss:
			misses[Coord{d.X, d.Y}] = true
		case CellDestroyed:
			destroyed[Coord{d.X, d.Y}] = true
		default:
			t.Fatalf("unexpected delta %+v", d)
		}
	}
	if len(destroyed) != 2 || !destroyed[Coord{3, 4}] || !destroyed[Coord{4, 4}] {
		t.Fatalf("destroyed = %v", destroyed)
	}
	// the 2x1 ship at (3..4, 4) is ringed by a 4x3 box minus its own cells
	if len(misses) != 10 {
		t.Fatalf("revealed %d misses, want 10: %v", len(misses), misses)
	}
	for y := 3; y <= 5; y++ {
		for x := 2; x <= 5; x++ {
			c := Coord{x, y}
			if destroyed[c] {
				continue
			}
			if !misses[c] || bob.Field.At(c) != CellMiss {
				t.Errorf("neighbor %v not revealed", c)
			}
		}
	}
	if bob.Fleet.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", bob.Fleet.Remaining)
	}
	if g.Over() {
		t.Fatal("game over with a ship left")
	}
}

func TestAttackMissPassesTurn(t *testing.T) {
	g := duel(t, []Coord{{0, 0}})

	res, ok := g.ResolveAttack(0, 5, 5)
	if !ok {
		t.Fatal("attack ignored")
	}
	if res.Hit || res.Deltas[0].Type != CellMiss {
		t.Fatalf("result = %+v, want a miss", res)
	}
	if res.WhoTurns.Player != "alice" || res.WhoNext.Player != "bob" {
		t.Fatalf("turn = %s -> %s, want alice -> bob", res.WhoTurns.Player, res.WhoNext.Player)
	}
	if cur, _ := g.Arbiter.Current(); cur.Slot != 1 {
		t.Fatalf("current slot = %d, want 1", cur.Slot)
	}
}

func TestAttackIgnored(t *testing.T) {
	g := duel(t, []Coord{{0, 0}}, []Coord{{5, 5}})
	if _, ok := g.ResolveAttack(0, 7, 7); !ok {
		t.Fatal("setup miss ignored")
	}
	// bob now holds the turn
	before := snapshotBoard(g.Player(1).Field)

	cases := []struct {
		name     string
		attacker Slot
		x, y     int
	}{
		{"out of turn", 0, 0, 0},
		{"out of bounds", 1, 10, 0},
		{"negative", 1, -1, 3},
	}
	for _, tc := range cases {
		if res, ok := g.ResolveAttack(tc.attacker, tc.x, tc.y); ok {
			t.Errorf("%s: attack accepted: %+v", tc.name, res)
		}
	}
	if !equalBoards(before, g.Player(1).Field) {
		t.Fatal("ignored attacks changed the target board")
	}
	if cur, _ := g.Arbiter.Current(); cur.Slot != 1 {
		t.Fatalf("ignored attacks moved the turn to %d", cur.Slot)
	}

	// alice's one-decker at (9,9): bob misses, then alice re-fires a resolved cell
	if _, ok := g.ResolveAttack(1, 0, 0); !ok {
		t.Fatal("bob miss ignored")
	}
	if _, ok := g.ResolveAttack(0, 7, 7); ok {
		t.Fatal("attack on a resolved cell accepted")
	}
}

func TestAttackIgnoredBeforeActive(t *testing.T) {
	alice, _ := PlayerWithShips([]Coord{{0, 0}})
	bob, _ := PlayerWithShips([]Coord{{0, 0}})
	g := NewGameWith(alice, bob)
	g.Arbiter.IssueTicket("alice")

	if _, ok := g.ResolveAttack(0, 0, 0); ok {
		t.Fatal("attack accepted with one ticket")
	}
	if bob.Field.At(Coord{0, 0}) != CellShip1x {
		t.Fatal("ignored attack mutated the board")
	}
}

func TestAttackLastShipEndsGame(t *testing.T) {
	g := duel(t, []Coord{{2, 2}})

	res, ok := g.ResolveAttack(0, 2, 2)
	if !ok {
		t.Fatal("attack ignored")
	}
	if !res.GameOver || res.Winner.Player != "alice" {
		t.Fatalf("game over = %v winner = %+v", res.GameOver, res.Winner)
	}
	if w, over := g.Winner(); !over || w.Slot != 0 {
		t.Fatalf("Winner() = %+v, %v", w, over)
	}
	if _, ok := g.ResolveAttack(0, 3, 3); ok {
		t.Fatal("attack accepted after game over")
	}
}

func TestAttackSinkPropertiesOnRandomFleets(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g, err := NewGame(rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		g.Arbiter.IssueTicket("alice")
		g.Arbiter.IssueTicket("bob")
		enemy := g.Player(1)

		ships := append([]*Ship(nil), enemy.Fleet.Ships...)
		for i, ship := range ships {
			remaining := enemy.Fleet.Remaining
			decks := append([]Deck(nil), ship.Decks...)
			var last AttackResult
			for _, d := range decks {
				res, ok := g.ResolveAttack(0, d.X, d.Y)
				if !ok {
					t.Fatalf("seed %d: hit on %v ignored", seed, d.Coord())
				}
				if res.WhoNext.Slot != 0 {
					t.Fatalf("seed %d: hit passed the turn", seed)
				}
				last = res
			}
			if last.Sunk != ship {
				t.Fatalf("seed %d: ship %d not reported sunk", seed, i)
			}
			k := len(decks)
			var destroyed, misses int
			for _, d := range last.Deltas[1:] {
				switch d.Type {
				case CellDestroyed:
					destroyed++
				case CellMiss:
					misses++
				}
			}
			if destroyed != k {
				t.Fatalf("seed %d: %d destroyed deltas for %d decks", seed, destroyed, k)
			}
			if misses < 0 || misses > 8*k {
				t.Fatalf("seed %d: %d reveal misses for %d decks", seed, misses, k)
			}
			if enemy.Fleet.Remaining != remaining-1 {
				t.Fatalf("seed %d: remaining %d -> %d", seed, remaining, enemy.Fleet.Remaining)
			}
			if last.GameOver != (i == len(ships)-1) {
				t.Fatalf("seed %d: game over = %v after ship %d", seed, last.GameOver, i)
			}
		}
	}
}

func snapshotBoard(b Board) Board {
	out := NewBoard()
	for y := range b {
		copy(out[y], b[y])
	}
	return out
}

func equalBoards(a, b Board) bool {
	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				return false
			}
		}
	}
	return true
}
