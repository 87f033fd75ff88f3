package engine

// Arbiter hands out the two tickets of a game and tracks whose turn it is.
// A hit keeps the turn with the attacker; a miss passes it on.
type Arbiter struct {
	tickets []Ticket
	turn    int // index into tickets; meaningful once a ticket exists
}

// IssueTicket binds the next free slot to player. The first ticket holds
// the turn.
func (a *Arbiter) IssueTicket(player PlayerID) (Ticket, error) {
	if len(a.tickets) >= 2 {
		return Ticket{}, ErrSessionFull
	}
	t := Ticket{Slot: Slot(len(a.tickets)), Player: player}
	if len(a.tickets) == 0 {
		a.turn = 0
	}
	a.tickets = append(a.tickets, t)
	return t, nil
}

// Active reports whether both tickets have been issued.
func (a *Arbiter) Active() bool { return len(a.tickets) == 2 }

// Issued returns how many tickets exist.
func (a *Arbiter) Issued() int { return len(a.tickets) }

// Current returns the ticket allowed to attack; ok is false until Active.
func (a *Arbiter) Current() (Ticket, bool) {
	if !a.Active() {
		return Ticket{}, false
	}
	return a.tickets[a.turn], true
}

// Holder returns the ticket the turn pointer rests on, which is defined as
// soon as the first ticket is issued.
func (a *Arbiter) Holder() (Ticket, bool) {
	if len(a.tickets) == 0 {
		return Ticket{}, false
	}
	return a.tickets[a.turn], true
}

// Advance moves the turn after an attack and returns the new holder.
func (a *Arbiter) Advance(wasHit bool) Ticket {
	if !wasHit && a.Active() {
		a.turn = 1 - a.turn
	}
	return a.tickets[a.turn]
}

// TicketFor finds the ticket bound to player.
func (a *Arbiter) TicketFor(player PlayerID) (Ticket, bool) {
	for _, t := range a.tickets {
		if t.Player == player {
			return t, true
		}
	}
	return Ticket{}, false
}

// Tickets returns a copy of the issued tickets in slot order.
func (a *Arbiter) Tickets() []Ticket {
	return append([]Ticket(nil), a.tickets...)
}
