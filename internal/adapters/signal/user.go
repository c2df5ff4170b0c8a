package signal

import (
	"github.com/dkeye/huddle/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID) {
	who, ok := ctl.Orch.WhoAmI(sid)
	if !ok {
		return
	}
	frame, err := core.Encode(core.EventWhoAmI, who)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode whoami")
		return
	}
	ctl.Orch.Registry.SendTo(sid, frame)
}
