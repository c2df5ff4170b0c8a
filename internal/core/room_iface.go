package core

import (
	"github.com/dkeye/huddle/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ConnectionID SessionID `json:"connectionId"`
	Username     string    `json:"username,omitempty"`
}

// Fanout is the publishing handle given to a Sequence callback.
type Fanout interface {
	// Publish delivers data to every current member except exclude.
	Publish(exclude SessionID, data Frame) PublishResult
	// Admit records ms as a member under username.
	Admit(ms MemberSession, username string)
}

// RoomService is the core-facing API of a room.
// It owns the membership set and the slot pool but never touches transport
// resources.
type RoomService interface {
	Room() domain.Room
	Slots() *SlotPool
	MemberCount() int
	MembersSnapshot() []MemberDTO
	IsMember(sid SessionID) bool

	RemoveMember(sid SessionID)
	// Sequence runs fn under the room's chat sequence lock. Chat appends,
	// history replay and admission run here; storage I/O is allowed.
	Sequence(fn func(f Fanout))
	// Broadcast publishes immediately, without waiting for a Sequence.
	// Every publish is serialized on a short fan-out lock, so members see
	// frames in publish order.
	Broadcast(exclude SessionID, data Frame) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID   `json:"id"`
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
	Capacity    int             `json:"slot_capacity"`
	Streaming   int             `json:"streaming"`
	Slots       []string        `json:"slots"`
	Members     []MemberDTO     `json:"members"`
}

// RoomManager is the arena of live rooms keyed by name. A room is created on
// first join and kept for the lifetime of the process.
type RoomManager interface {
	GetOrCreate(room domain.Room) RoomService
	Get(name domain.RoomName) (RoomService, bool)
	List() []RoomInfo
}
