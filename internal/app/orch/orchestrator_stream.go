package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// StartStream claims a video slot for username in the connection's room.
// Repeating it for a slotted user re-acknowledges the same slot.
func (o *Orchestrator) StartStream(_ context.Context, sid core.SessionID, username string) (int, error) {
	if username == "" {
		return domain.NoSlot, domain.Required("username")
	}

	idx := domain.NoSlot
	var err error
	ok := o.Registry.Do(sid, func(c *app.Conn) {
		meta := c.Meta()
		if meta.Room == nil {
			err = domain.ErrNotJoined
			return
		}
		rs := o.Rooms.GetOrCreate(*meta.Room)
		o.syncSlot(meta)

		if meta.Slot != domain.NoSlot && meta.Username != username {
			if old := rs.Slots().Release(meta.Username); old != domain.NoSlot {
				o.broadcast(rs, core.EventReleaseSlot, SlotPayload{Username: meta.Username, SlotIndex: old})
			}
			meta.Slot = domain.NoSlot
		}

		idx = rs.Slots().Assign(username)
		if idx == domain.NoSlot {
			err = fmt.Errorf("%w: all %d slots in use", domain.ErrSlotPoolExhausted, rs.Slots().Capacity())
			return
		}
		meta.Username = username
		meta.Slot = idx

		o.broadcast(rs, core.EventAssignSlot, SlotPayload{Username: username, SlotIndex: idx})
		o.emit(c.Session(), core.EventSlotAssigned, SlotAckPayload{SlotIndex: idx})
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(meta.Room.Name)).Str("username", username).Int("slot", idx).Msg("stream started")
	})
	if !ok {
		return domain.NoSlot, core.ErrConnClosed
	}
	return idx, err
}

// StopStream frees username's slot. Without a slot it does nothing.
func (o *Orchestrator) StopStream(_ context.Context, sid core.SessionID, username string) error {
	if username == "" {
		return domain.Required("username")
	}
	ok := o.Registry.Do(sid, func(c *app.Conn) {
		meta := c.Meta()
		if meta.Room == nil {
			return
		}
		rs, ok := o.Rooms.Get(meta.Room.Name)
		if !ok {
			return
		}
		if idx := rs.Slots().Release(username); idx != domain.NoSlot {
			o.broadcast(rs, core.EventReleaseSlot, SlotPayload{Username: username, SlotIndex: idx})
			log.Info().Str("module", "orch").Str("sid", string(sid)).Str("username", username).Int("slot", idx).Msg("stream stopped")
		}
		if username == meta.Username {
			meta.Slot = domain.NoSlot
		}
	})
	if !ok {
		return core.ErrConnClosed
	}
	return nil
}

// OnFrame relays one video frame to the room. The slot index is taken from
// the allocator; a client-claimed index is only compared against it.
func (o *Orchestrator) OnFrame(sid core.SessionID, username, image string, claimed *int) error {
	if username == "" || image == "" {
		return domain.Required("username", "image")
	}

	var rs core.RoomService
	o.Registry.Do(sid, func(c *app.Conn) {
		if room := c.Meta().Room; room != nil {
			rs, _ = o.Rooms.Get(room.Name)
		}
	})
	if rs == nil {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("frame without room dropped")
		return nil
	}

	idx := rs.Slots().Get(username)
	if idx == domain.NoSlot {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("username", username).Msg("frame without slot dropped")
		return nil
	}
	if claimed != nil && *claimed != idx {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("username", username).Int("claimed", *claimed).Int("slot", idx).Msg("claimed slot overridden")
	}
	o.broadcast(rs, core.EventStream, StreamPayload{Username: username, Image: image, SlotIndex: idx})
	return nil
}
