package orch

import (
	"context"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Chat appends msg to the room log and broadcasts the stored message.
// Append and broadcast run in one room sequence, so subscribers see messages
// in log order. A failed append is logged and the broadcast skipped; the
// sender is not told.
func (o *Orchestrator) Chat(ctx context.Context, sid core.SessionID, msg string, roomName domain.RoomName, username string) error {
	if msg == "" || roomName == "" || username == "" {
		return domain.Required("msg", "room name", "username")
	}
	logger := log.With().Str("module", "orch.chat").Str("sid", string(sid)).Str("room", string(roomName)).Logger()

	room, ok := o.joinedRoom(sid, roomName)
	if !ok {
		var err error
		room, err = o.Catalog.Exists(ctx, roomName)
		if err != nil {
			logger.Error().Err(err).Msg("chat room does not resolve, message dropped")
			return nil
		}
	}

	rs := o.Rooms.GetOrCreate(room)
	rs.Sequence(func(f core.Fanout) {
		m, err := o.Log.Append(ctx, room.ID, username, msg)
		if err != nil {
			logger.Error().Err(err).Msg("append failed, message dropped")
			return
		}
		o.publish(f, rs, core.EventChatMessage, ChatPayload{Msg: m.Content, Username: m.Username, ID: m.ID.String()})
	})
	return nil
}

func (o *Orchestrator) joinedRoom(sid core.SessionID, name domain.RoomName) (domain.Room, bool) {
	var (
		room  domain.Room
		found bool
	)
	o.Registry.Do(sid, func(c *app.Conn) {
		if r := c.Meta().Room; r != nil && r.Name == name {
			room, found = *r, true
		}
	})
	return room, found
}
