package core

import (
	"sync"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// SlotPool is a fixed-capacity set of video-stream slots for one room.
// A username holds at most one slot; the lowest free index is always taken first.
type SlotPool struct {
	mu    sync.Mutex
	slots []string
}

func NewSlotPool(capacity int) *SlotPool {
	if capacity < 0 {
		capacity = 0
	}
	return &SlotPool{slots: make([]string, capacity)}
}

func (p *SlotPool) Capacity() int { return len(p.slots) }

// Assign returns the slot already held by username, or claims the lowest
// free one. It returns domain.NoSlot when the pool is full.
func (p *SlotPool) Assign(username string) int {
	if username == "" {
		return domain.NoSlot
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(username); i != domain.NoSlot {
		return i
	}
	for i, holder := range p.slots {
		if holder == "" {
			p.slots[i] = username
			log.Debug().Str("module", "core.slots").Int("slot", i).Str("username", username).Msg("slot assigned")
			return i
		}
	}
	return domain.NoSlot
}

// Release frees the slot held by username and returns its index, or
// domain.NoSlot if there was none.
func (p *SlotPool) Release(username string) int {
	if username == "" {
		return domain.NoSlot
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(username)
	if i != domain.NoSlot {
		p.slots[i] = ""
		log.Debug().Str("module", "core.slots").Int("slot", i).Str("username", username).Msg("slot released")
	}
	return i
}

func (p *SlotPool) Get(username string) int {
	if username == "" {
		return domain.NoSlot
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexOf(username)
}

// Snapshot returns the holders by slot index; free slots are "".
func (p *SlotPool) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.slots))
	copy(out, p.slots)
	return out
}

func (p *SlotPool) Occupied() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, holder := range p.slots {
		if holder != "" {
			n++
		}
	}
	return n
}

func (p *SlotPool) indexOf(username string) int {
	for i, holder := range p.slots {
		if holder == username {
			return i
		}
	}
	return domain.NoSlot
}
