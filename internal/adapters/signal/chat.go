package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

type chatPayload struct {
	Msg      string `json:"msg"`
	RoomName string `json:"roomName"`
	Username string `json:"username"`
}

func (ctl *SignalWSController) handleChat(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p chatPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
		return domain.ErrRateLimited
	}
	return ctl.Orch.Chat(ctx, sid, p.Msg, domain.RoomName(p.RoomName), p.Username)
}
