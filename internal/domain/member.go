package domain

// NoSlot marks "no video slot" in allocator results and on a Member.
const NoSlot = -1

type ConnState int

const (
	StateConnected ConnState = iota
	StateJoined
	StateStreaming
	StateDisconnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateStreaming:
		return "streaming"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Member is the per-connection participation meta: what the connection has
// claimed (username) and what it currently holds (room, slot).
// No transport or lifecycle logic here.
type Member struct {
	Username string
	Room     *Room
	Slot     int
	Closed   bool
}

func NewMember() *Member {
	return &Member{Slot: NoSlot}
}

func (m *Member) State() ConnState {
	switch {
	case m.Closed:
		return StateDisconnected
	case m.Room != nil && m.Slot != NoSlot:
		return StateStreaming
	case m.Room != nil:
		return StateJoined
	}
	return StateConnected
}

func (m *Member) RoomName() RoomName {
	if m.Room == nil {
		return ""
	}
	return m.Room.Name
}
