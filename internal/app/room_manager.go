package app

import (
	"sort"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

// RoomManagerImpl is the arena of live rooms, one slot pool each.
type RoomManagerImpl struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomName]core.RoomService
	capacity int
}

func NewRoomManager(slotCapacity int) core.RoomManager {
	return &RoomManagerImpl{
		rooms:    make(map[domain.RoomName]core.RoomService),
		capacity: slotCapacity,
	}
}

func (f *RoomManagerImpl) GetOrCreate(room domain.Room) core.RoomService {
	f.mu.RLock()
	rs, ok := f.rooms[room.Name]
	f.mu.RUnlock()
	if ok {
		return rs
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rs, ok = f.rooms[room.Name]; ok {
		return rs
	}
	rs = core.NewRoomService(room, f.capacity)
	f.rooms[room.Name] = rs
	return rs
}

func (f *RoomManagerImpl) Get(name domain.RoomName) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rs, ok := f.rooms[name]
	return rs, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for _, r := range f.rooms {
		room := r.Room()
		out = append(out, core.RoomInfo{
			ID:          room.ID,
			Name:        room.Name,
			MemberCount: r.MemberCount(),
			Capacity:    r.Slots().Capacity(),
			Streaming:   r.Slots().Occupied(),
			Slots:       r.Slots().Snapshot(),
			Members:     r.MembersSnapshot(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
