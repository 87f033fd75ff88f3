package protocol

import (
	"encoding/json"
	"fmt"
)

type Event string

const (
	EvConnect        Event = "connect"
	EvReady          Event = "ready"
	EvSessionFull    Event = "sessionFull"
	EvInitialization Event = "initialization"
	EvAttackRequest  Event = "attackRequest"
	EvAttackResult   Event = "attackResult"
	EvSessionEnded   Event = "sessionEnded"
)

// Envelope is the frame every transport carries: a named event plus its
// JSON payload.
type Envelope struct {
	Type    Event           `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload under the given event name. A nil payload
// produces an envelope without one.
func NewEnvelope(ev Event, payload any) (Envelope, error) {
	env := Envelope{Type: ev}
	if payload == nil {
		return env, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return env, fmt.Errorf("encode %s payload: %w", ev, err)
	}
	env.Payload = b
	return env, nil
}

// MustEnvelope is NewEnvelope for payloads that always marshal.
func MustEnvelope(ev Event, payload any) Envelope {
	env, err := NewEnvelope(ev, payload)
	if err != nil {
		panic(err)
	}
	return env
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
