package core

import (
	"encoding/json"
	"fmt"
)

// Inbound event types.
const (
	EventJoinRoom     = "join room"
	EventLeaveRoom    = "leave room"
	EventStartStream  = "start stream"
	EventStopStream   = "stop stream"
	EventStream       = "stream"
	EventChatMessage  = "chat message"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventPing         = "ping"
	EventWhoAmI       = "whoami"
)

// Outbound event types.
const (
	EventUserConnected = "user-connected"
	EventUserJoined    = "user joined"
	EventUserLeft      = "user left"
	EventAssignSlot    = "assign slot"
	EventReleaseSlot   = "release slot"
	EventSlotAssigned  = "slot assigned"
	EventError         = "error"
	EventLeft          = "left"
	EventPong          = "pong"
)

// Envelope is the wire shape of every frame: {"type": ..., "data": ...}.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func Encode(typ string, data any) (Frame, error) {
	out := struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: data}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", typ, err)
	}
	return b, nil
}

// ErrorPayload is the body of a caller-only "error" event.
type ErrorPayload struct {
	Message string `json:"message"`
}
