package protocol

import "encoding/json"

const (
	StatusEnd         = "end"
	StatusInterrupted = "interrupted"

	ServerFullMessage = "Game canceled. Server is full."
)

type SessionFull struct {
	Error string `json:"error"`
}

type Constants struct {
	CellsAlongAxis int    `json:"cellsAlongAxis"`
	ShipsAmount    [4]int `json:"shipsAmount"`
}

// Initialization is sent once per accepted connection after it reports
// ready. The player state is carried as raw JSON so protocol stays
// leaf-only (no engine import).
type Initialization struct {
	PlayerState             json.RawMessage `json:"playerState"`
	Constants               Constants       `json:"constants"`
	StateEnum               map[string]int  `json:"stateEnum"`
	CurrentTurnConnectionID ConnID          `json:"currentTurnConnectionID"`
	// ConnectionID is the recipient's own id, so it can tell which board
	// an attackResult touches.
	ConnectionID            ConnID          `json:"connectionID"`
}

type AttackRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AttackResult is one changed cell. A sink produces several in a row, all
// with the same WhoTurns/WhoNext.
type AttackResult struct {
	WhoTurns ConnID `json:"whoTurns"`
	WhoNext  ConnID `json:"whoNext"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Type     int    `json:"type"`
}

type SessionEnded struct {
	Status          string `json:"status"`
	Winner          ConnID `json:"winner,omitempty"`
	WhoDisconnected ConnID `json:"whoDisconnected,omitempty"`
}
