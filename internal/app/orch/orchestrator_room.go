package orch

import (
	"context"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connect registers a new transport session in the Connected state.
func (o *Orchestrator) Connect(sess core.MemberSession, hs domain.Handshake, cancel context.CancelFunc) {
	if hs.OffsetErr != nil {
		log.Warn().Err(hs.OffsetErr).Str("module", "orch").Str("sid", string(sess.SID())).Msg("handshake offset rejected")
	}
	o.Registry.BindSignal(sess, hs, cancel)
}

// Join moves the connection into roomName. Nothing changes when the room
// does not exist.
func (o *Orchestrator) Join(ctx context.Context, sid core.SessionID, roomName domain.RoomName, username string) error {
	if roomName == "" || username == "" {
		return domain.Required("room name", "username")
	}
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}

	var err error
	ok := o.Registry.Do(sid, func(c *app.Conn) {
		err = o.joinLocked(ctx, c, roomName, username)
	})
	if !ok {
		return core.ErrConnClosed
	}
	return err
}

func (o *Orchestrator) joinLocked(ctx context.Context, c *app.Conn, roomName domain.RoomName, username string) error {
	room, err := o.Catalog.Exists(ctx, roomName)
	if err != nil {
		return err
	}

	meta := c.Meta()
	if meta.Room != nil {
		log.Info().Str("module", "orch").Str("sid", string(c.Session().SID())).Str("from_room", string(meta.Room.Name)).Msg("leaving previous room")
		o.leaveLocked(c, true)
	}

	rs := o.Rooms.GetOrCreate(room)
	plan := c.TakeHandshake().Plan()
	sess := c.Session()

	rs.Sequence(func(f core.Fanout) {
		o.catchUp(ctx, sess, room, plan)
		f.Admit(sess, username)
		o.publish(f, rs, core.EventUserConnected, UserConnectedPayload{ConnectionID: sess.SID()})
		o.publish(f, rs, core.EventUserJoined, UserPayload{Username: username})
	})

	meta.Username = username
	meta.Room = &room
	meta.Slot = domain.NoSlot
	log.Info().Str("module", "orch").Str("sid", string(sess.SID())).Str("room", string(room.Name)).Str("username", username).Msg("joined")
	return nil
}

// Leave drops room membership but keeps the connection open.
func (o *Orchestrator) Leave(sid core.SessionID) error {
	ok := o.Registry.Do(sid, func(c *app.Conn) {
		if c.Meta().Room == nil {
			return
		}
		o.leaveLocked(c, true)
		o.emit(c.Session(), core.EventLeft, nil)
	})
	if !ok {
		return core.ErrConnClosed
	}
	return nil
}

// leaveLocked releases the slot and membership held by c. The caller holds
// the connection lock.
func (o *Orchestrator) leaveLocked(c *app.Conn, announce bool) {
	meta := c.Meta()
	if meta.Room == nil {
		return
	}
	sid := c.Session().SID()
	if rs, ok := o.Rooms.Get(meta.Room.Name); ok {
		rs.RemoveMember(sid)
		if idx := rs.Slots().Release(meta.Username); idx != domain.NoSlot {
			o.broadcast(rs, core.EventReleaseSlot, SlotPayload{Username: meta.Username, SlotIndex: idx})
		}
		if announce {
			o.broadcast(rs, core.EventUserLeft, UserPayload{Username: meta.Username})
		}
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(meta.Room.Name)).Msg("left room")
	meta.Room = nil
	meta.Slot = domain.NoSlot
}

// OnDisconnect runs the terminal cleanup once per connection; repeated calls
// are no-ops.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.Registry.Unbind(sid, func(c *app.Conn) {
		o.leaveLocked(c, false)
		c.Session().Signal().Close()
	})
}

func (o *Orchestrator) WhoAmI(sid core.SessionID) (WhoAmIPayload, bool) {
	var out WhoAmIPayload
	ok := o.Registry.Do(sid, func(c *app.Conn) {
		meta := c.Meta()
		o.syncSlot(meta)
		out = WhoAmIPayload{
			ConnectionID: sid,
			Username:     meta.Username,
			Room:         string(meta.RoomName()),
			SlotIndex:    meta.Slot,
			State:        meta.State().String(),
		}
	})
	return out, ok
}

// syncSlot reloads meta.Slot from the room's allocator. Connections claiming
// the same username share its slot, so another one may have released it.
func (o *Orchestrator) syncSlot(meta *domain.Member) {
	if meta.Room == nil {
		return
	}
	rs, ok := o.Rooms.Get(meta.Room.Name)
	if !ok {
		return
	}
	meta.Slot = rs.Slots().Get(meta.Username)
}
