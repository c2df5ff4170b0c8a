package app

import "github.com/dkeye/huddle/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession, event string) BackpressureAction
}

// SimplePolicy drops video frames for a slow member and disconnects it when
// anything else (chat, slot changes) cannot be queued.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ core.RoomService, _ core.MemberSession, event string) BackpressureAction {
	if event == core.EventStream {
		return DropFrame
	}
	return KickMember
}
