package stream

import (
	"encoding/json"
	"fmt"

	"citysim/internal/city"
)

// Message types sent to clients.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hello is the first message a client receives: who is running and the
// static city it can build once.
type Hello struct {
	Session string              `json:"session"`
	Layout  city.LayoutSnapshot `json:"layout"`
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
