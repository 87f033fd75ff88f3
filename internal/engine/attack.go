package engine

// Delta is one cell change produced by an attack.
type Delta struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Type CellType `json:"type"`
}

// AttackResult describes one resolved attack. Every delta shares the same
// WhoTurns/WhoNext pair.
type AttackResult struct {
	WhoTurns Ticket
	WhoNext  Ticket
	Hit      bool
	Sunk     *Ship
	Deltas   []Delta

	// GameOver is set when this attack sank the last ship of the fleet.
	GameOver bool
	Winner   Ticket
}

// ResolveAttack fires attacker's shot at (x, y) on the opponent's board.
// ok is false when the shot is ignored: game not active or already over,
// not the attacker's turn, target out of bounds or already resolved.
// Ignored shots change nothing.
func (g *Game) ResolveAttack(attacker Slot, x, y int) (res AttackResult, ok bool) {
	if g.over {
		return res, false
	}
	cur, active := g.Arbiter.Current()
	if !active || cur.Slot != attacker {
		return res, false
	}
	target := Coord{X: x, Y: y}
	if !target.InBounds() {
		return res, false
	}
	enemy := g.Players[attacker.Other()]
	before := enemy.Field.At(target)
	if before.Resolved() {
		return res, false
	}

	var ship *Ship
	switch {
	case before == CellEmpty:
		enemy.Field.set(target, CellMiss)
	case before.IsShip():
		enemy.Field.set(target, CellWounded)
		ship, _ = enemy.Fleet.ShipAt(target)
		if ship != nil {
			ship.markDeck(target, CellWounded)
		}
		res.Hit = true
	default:
		return res, false
	}

	res.WhoTurns = cur
	res.WhoNext = g.Arbiter.Advance(res.Hit)
	res.Deltas = append(res.Deltas, Delta{X: x, Y: y, Type: enemy.Field.At(target)})

	if ship != nil && ship.Sunk() {
		res.Sunk = ship
		res.Deltas = append(res.Deltas, sink(enemy.Field, ship)...)
		enemy.Fleet.Remaining--
		if enemy.Fleet.Remaining <= 0 {
			g.over = true
			g.winner = cur
			res.GameOver = true
			res.Winner = cur
		}
	}
	return res, true
}

// sink reveals every empty cell around ship as a miss, then marks each deck
// destroyed. No ship touches another, so every revealed cell is water.
func sink(field Board, ship *Ship) []Delta {
	var out []Delta
	for _, d := range ship.Decks {
		for _, n := range d.Coord().Around() {
			if field.At(n) == CellEmpty {
				field.set(n, CellMiss)
				out = append(out, Delta{X: n.X, Y: n.Y, Type: CellMiss})
			}
		}
	}
	for i := range ship.Decks {
		c := ship.Decks[i].Coord()
		field.set(c, CellDestroyed)
		ship.Decks[i].Type = CellDestroyed
		out = append(out, Delta{X: c.X, Y: c.Y, Type: CellDestroyed})
	}
	return out
}
