package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
)

type streamControlPayload struct {
	Username string `json:"username"`
}

// framePayload carries one encoded video frame. SlotIndex is optional; the
// server's allocator decides the slot that goes out.
type framePayload struct {
	Username  string `json:"username"`
	Image     string `json:"image"`
	SlotIndex *int   `json:"slotIndex,omitempty"`
}

func (ctl *SignalWSController) handleStartStream(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p streamControlPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	_, err := ctl.Orch.StartStream(ctx, sid, p.Username)
	return err
}

func (ctl *SignalWSController) handleStopStream(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p streamControlPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	return ctl.Orch.StopStream(ctx, sid, p.Username)
}

func (ctl *SignalWSController) handleStream(sid core.SessionID, data json.RawMessage) error {
	var p framePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	return ctl.Orch.OnFrame(sid, p.Username, p.Image, p.SlotIndex)
}
