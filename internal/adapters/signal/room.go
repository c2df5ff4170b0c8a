package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type joinPayload struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
}

func (ctl *SignalWSController) handleJoin(ctx context.Context, sid core.SessionID, data json.RawMessage) error {
	var p joinPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomName).Str("username", p.Username).Msg("join")
	return ctl.Orch.Join(ctx, sid, domain.RoomName(p.RoomName), p.Username)
}

// handleLeave drops room membership; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID) error {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	return ctl.Orch.Leave(sid)
}
