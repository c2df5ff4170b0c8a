package orch

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/rs/zerolog/log"
)

// Relay forwards an offer, answer or ICE candidate to target, tagged with
// the sender's connection id. Payloads are not inspected and a missing
// target drops the message.
func (o *Orchestrator) Relay(from core.SessionID, event string, target core.SessionID, payload json.RawMessage) {
	if target == "" {
		log.Debug().Str("module", "orch.relay").Str("sid", string(from)).Str("event", event).Msg("relay without target dropped")
		return
	}
	frame, err := core.Encode(event, RelayPayload{From: from, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "orch.relay").Str("event", event).Msg("encode relay")
		return
	}
	if !o.Registry.SendTo(target, frame) {
		log.Debug().Str("module", "orch.relay").Str("sid", string(from)).Str("target", string(target)).Str("event", event).Msg("relay target gone")
	}
}
