package signal

import (
	"github.com/dkeye/huddle/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(sid core.SessionID) {
	frame, err := core.Encode(core.EventPong, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode pong")
		return
	}
	ctl.Orch.Registry.SendTo(sid, frame)
}
