package session

import (
	"encoding/json"
	"fmt"

	"seabattle/internal/engine"
	"seabattle/internal/protocol"
)

// initialization builds the payload a seated player receives after ready:
// its own boards and fleet, the shared constants, and who holds the turn.
func (c *Controller) initialization(conn protocol.ConnID, slot engine.Slot) (protocol.Envelope, error) {
	state, err := json.Marshal(c.game.Player(slot))
	if err != nil {
		return protocol.Envelope{}, fmt.Errorf("encode player state: %w", err)
	}
	var turn protocol.ConnID
	if h, ok := c.game.Arbiter.Holder(); ok {
		turn = protocol.ConnID(h.Player)
	}
	return protocol.NewEnvelope(protocol.EvInitialization, protocol.Initialization{
		PlayerState: state,
		Constants: protocol.Constants{
			CellsAlongAxis: engine.BoardSize,
			ShipsAmount:    engine.ShipsAmount,
		},
		StateEnum:               engine.StateEnum(),
		CurrentTurnConnectionID: turn,
		ConnectionID:            conn,
	})
}
