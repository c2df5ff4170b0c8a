package orch

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
)

type UserConnectedPayload struct {
	ConnectionID core.SessionID `json:"connectionId"`
}

type UserPayload struct {
	Username string `json:"username"`
}

type SlotPayload struct {
	Username  string `json:"username"`
	SlotIndex int    `json:"slotIndex"`
}

type SlotAckPayload struct {
	SlotIndex int `json:"slotIndex"`
}

// ChatPayload carries the message id as a decimal string so clients can
// advance their catch-up offset.
type ChatPayload struct {
	Msg      string `json:"msg"`
	Username string `json:"username"`
	ID       string `json:"id,omitempty"`
}

type StreamPayload struct {
	Username  string `json:"username"`
	Image     string `json:"image"`
	SlotIndex int    `json:"slotIndex"`
}

// RelayPayload is what the target of offer/answer/ice-candidate receives.
type RelayPayload struct {
	From    core.SessionID  `json:"from"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WhoAmIPayload struct {
	ConnectionID core.SessionID `json:"connectionId"`
	Username     string         `json:"username,omitempty"`
	Room         string         `json:"room,omitempty"`
	SlotIndex    int            `json:"slotIndex"`
	State        string         `json:"state"`
}
