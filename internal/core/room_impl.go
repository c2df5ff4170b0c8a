package core

import (
	"sort"
	"sync"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  domain.Room
	slots *SlotPool

	// seq orders history against live chat; fan orders frames on the wire.
	seq   sync.Mutex
	fan   sync.Mutex
	mu    sync.RWMutex
	bySID map[SessionID]roomMember
}

type roomMember struct {
	session  MemberSession
	username string
}

func NewRoomService(room domain.Room, capacity int) RoomService {
	return &roomImpl{
		room:  room,
		slots: NewSlotPool(capacity),
		bySID: make(map[SessionID]roomMember),
	}
}

func (r *roomImpl) Room() domain.Room { return r.room }
func (r *roomImpl) Slots() *SlotPool  { return r.slots }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) IsMember(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySID[sid]
	return ok
}

func (r *roomImpl) addMember(ms MemberSession, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[ms.SID()] = roomMember{session: ms, username: username}
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(ms.SID())).Str("username", username).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		return
	}
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(sid)).Msg("member removed")
}

func (r *roomImpl) Sequence(fn func(f Fanout)) {
	r.seq.Lock()
	defer r.seq.Unlock()
	fn(roomFanout{r})
}

// Broadcast does not wait for a running Sequence.
func (r *roomImpl) Broadcast(exclude SessionID, data Frame) PublishResult {
	return r.publish(exclude, data)
}

func (r *roomImpl) publish(exclude SessionID, data Frame) PublishResult {
	r.fan.Lock()
	defer r.fan.Unlock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, m := range r.bySID {
		if sid == exclude {
			continue
		}
		if err := m.session.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m.session)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.Name)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for sid, m := range r.bySID {
		out = append(out, MemberDTO{ConnectionID: sid, Username: m.username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConnectionID < out[j].ConnectionID })
	return out
}

// roomFanout is handed out while the sequence lock is held.
type roomFanout struct{ r *roomImpl }

func (f roomFanout) Publish(exclude SessionID, data Frame) PublishResult {
	return f.r.publish(exclude, data)
}

func (f roomFanout) Admit(ms MemberSession, username string) { f.r.addMember(ms, username) }
