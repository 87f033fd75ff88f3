package engine

import (
	"errors"
	"testing"
)

func TestArbiterIssuesTwoTickets(t *testing.T) {
	var a Arbiter
	if _, ok := a.Current(); ok {
		t.Fatal("current defined before any ticket")
	}

	t0, err := a.IssueTicket("alice")
	if err != nil {
		t.Fatal(err)
	}
	if t0.Slot != 0 {
		t.Fatalf("first slot = %d, want 0", t0.Slot)
	}
	if _, ok := a.Current(); ok {
		t.Fatal("current defined with one ticket")
	}
	if h, ok := a.Holder(); !ok || h != t0 {
		t.Fatalf("holder = %+v, want first ticket", h)
	}

	t1, err := a.IssueTicket("bob")
	if err != nil {
		t.Fatal(err)
	}
	if t1.Slot != 1 {
		t.Fatalf("second slot = %d, want 1", t1.Slot)
	}
	if cur, ok := a.Current(); !ok || cur != t0 {
		t.Fatalf("current = %+v, want first ticket", cur)
	}

	if _, err := a.IssueTicket("carol"); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("third ticket err = %v, want ErrSessionFull", err)
	}
	if a.Issued() != 2 {
		t.Fatalf("issued = %d after rejection, want 2", a.Issued())
	}
}

func TestArbiterAdvance(t *testing.T) {
	var a Arbiter
	t0, _ := a.IssueTicket("alice")
	t1, _ := a.IssueTicket("bob")

	if got := a.Advance(true); got != t0 {
		t.Fatalf("after hit turn = %+v, want %+v", got, t0)
	}
	if got := a.Advance(false); got != t1 {
		t.Fatalf("after miss turn = %+v, want %+v", got, t1)
	}
	if cur, _ := a.Current(); cur != t1 {
		t.Fatalf("current = %+v, want %+v", cur, t1)
	}
	if got := a.Advance(false); got != t0 {
		t.Fatalf("after second miss turn = %+v, want %+v", got, t0)
	}
}

func TestArbiterTicketFor(t *testing.T) {
	var a Arbiter
	a.IssueTicket("alice")
	a.IssueTicket("bob")

	if tk, ok := a.TicketFor("bob"); !ok || tk.Slot != 1 {
		t.Fatalf("TicketFor(bob) = %+v, %v", tk, ok)
	}
	if _, ok := a.TicketFor("mallory"); ok {
		t.Fatal("TicketFor(mallory) found a ticket")
	}
}
