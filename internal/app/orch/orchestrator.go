// Package orch drives the per-connection state machine: join, streaming
// slots, chat, signaling relay and disconnect cleanup.
package orch

import (
	"time"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/rs/zerolog/log"
)

const defaultReplayTimeout = 10 * time.Second

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Catalog  core.RoomCatalog
	Log      core.MessageLog
	Policy   app.Policy

	// ReplayTimeout bounds how long catch-up waits for a slow client queue.
	ReplayTimeout time.Duration
}

func (o *Orchestrator) replayTimeout() time.Duration {
	if o.ReplayTimeout <= 0 {
		return defaultReplayTimeout
	}
	return o.ReplayTimeout
}

// publish encodes one event and fans it out inside an ordering sequence.
func (o *Orchestrator) publish(f core.Fanout, room core.RoomService, event string, data any) {
	frame, err := core.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("event", event).Msg("encode broadcast")
		return
	}
	res := f.Publish("", frame)
	o.onDropped(room, event, res)
}

func (o *Orchestrator) broadcast(room core.RoomService, event string, data any) {
	frame, err := core.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("event", event).Msg("encode broadcast")
		return
	}
	o.onDropped(room, event, room.Broadcast("", frame))
}

func (o *Orchestrator) onDropped(room core.RoomService, event string, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow, event) {
		case app.KickMember:
			log.Warn().
				Str("module", "orch").
				Str("sid", string(slow.SID())).
				Str("room", string(room.Room().Name)).
				Str("event", event).
				Msg("slow member kicked")
			slow.Signal().Close()
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}

// emit sends an event to one connection only.
func (o *Orchestrator) emit(sess core.MemberSession, event string, data any) {
	frame, err := core.Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("event", event).Msg("encode emit")
		return
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sess.SID())).Str("event", event).Msg("emit dropped")
	}
}

// Fail reports a per-event error to the triggering connection only.
func (o *Orchestrator) Fail(sid core.SessionID, err error) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	o.emit(sess, core.EventError, core.ErrorPayload{Message: err.Error()})
}
