package orch

import (
	"context"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// catchUp replays history to the joining connection only, oldest first. It
// runs inside the room sequence, so no live chat can interleave with it.
func (o *Orchestrator) catchUp(ctx context.Context, sess core.MemberSession, room domain.Room, plan domain.ReplayPlan) int {
	logger := log.With().Str("module", "orch.catchup").Str("sid", string(sess.SID())).Str("room", string(room.Name)).Logger()

	var (
		msgs []domain.Message
		err  error
	)
	switch plan.Mode {
	case domain.ReplaySkip:
		logger.Warn().Err(plan.Err).Msg("stale offset, replay skipped")
		return 0
	case domain.ReplayFull:
		msgs, err = o.fullHistory(ctx, room.ID)
	case domain.ReplaySuffix:
		msgs, err = o.missingTail(ctx, room.ID, plan.Since)
	}
	if err != nil {
		logger.Error().Err(err).Msg("load history")
		return 0
	}

	sendCtx, cancel := context.WithTimeout(ctx, o.replayTimeout())
	defer cancel()
	sent := 0
	for _, m := range msgs {
		frame, err := core.Encode(core.EventChatMessage, ChatPayload{Msg: m.Content, Username: m.Username, ID: m.ID.String()})
		if err != nil {
			logger.Error().Err(err).Msg("encode history")
			continue
		}
		if err := sess.Signal().Send(sendCtx, frame); err != nil {
			logger.Warn().Err(err).Int("sent", sent).Int("total", len(msgs)).Msg("replay interrupted")
			return sent
		}
		sent++
	}
	logger.Debug().Int("mode", int(plan.Mode)).Int("sent", sent).Msg("history replayed")
	return sent
}

func (o *Orchestrator) fullHistory(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	return o.Log.ListFrom(ctx, roomID, 0)
}

func (o *Orchestrator) missingTail(ctx context.Context, roomID domain.RoomID, since domain.MessageID) ([]domain.Message, error) {
	return o.Log.ListFrom(ctx, roomID, since)
}
