package signal

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

// relayPayload is an inbound offer, answer or ICE candidate. Payload is
// opaque to the server.
type relayPayload struct {
	Target  string          `json:"target"`
	Payload json.RawMessage `json:"payload"`
}

func (ctl *SignalWSController) handleRelay(sid core.SessionID, event string, data json.RawMessage) error {
	var p relayPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.Target == "" {
		return domain.Required("target")
	}
	ctl.Orch.Relay(sid, event, core.SessionID(p.Target), p.Payload)
	return nil
}
