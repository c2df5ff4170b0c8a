package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSignal struct {
	mu     sync.Mutex
	frames []Frame
	full   bool
}

func (s *stubSignal) TrySend(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return ErrBackpressure
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *stubSignal) Send(_ context.Context, f Frame) error { return s.TrySend(f) }
func (s *stubSignal) Close()                                {}

func (s *stubSignal) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func admit(r RoomService, sid SessionID, sig SignalConnection, username string) {
	r.Sequence(func(f Fanout) {
		f.Admit(NewMemberSession(sid, domain.NewMember(), sig), username)
	})
}

func TestRoom_BroadcastReachesMembersOnly(t *testing.T) {
	r := NewRoomService(domain.Room{ID: 1, Name: "lobby"}, 3)
	a, b := &stubSignal{}, &stubSignal{}
	admit(r, "a", a, "alice")
	admit(r, "b", b, "bob")

	res := r.Broadcast("", Frame(`{"type":"x"}`))
	assert.Equal(t, 2, res.SendTo)

	r.RemoveMember("b")
	res = r.Broadcast("", Frame(`{"type":"y"}`))
	assert.Equal(t, 1, res.SendTo)
	assert.Equal(t, 2, a.count())
	assert.Equal(t, 1, b.count())
	assert.False(t, r.IsMember("b"))
}

func TestRoom_BroadcastExcludeAndBackpressure(t *testing.T) {
	r := NewRoomService(domain.Room{ID: 1, Name: "lobby"}, 3)
	a, slow := &stubSignal{}, &stubSignal{full: true}
	admit(r, "a", a, "alice")
	admit(r, "slow", slow, "sam")

	res := r.Broadcast("a", Frame(`{}`))
	assert.Equal(t, 0, res.SendTo)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, SessionID("slow"), res.Dropped[0].SID())
	assert.Equal(t, 0, a.count())
}

func TestRoom_MembersSnapshot(t *testing.T) {
	r := NewRoomService(domain.Room{ID: 7, Name: "lobby"}, 2)
	admit(r, "b", &stubSignal{}, "bob")
	admit(r, "a", &stubSignal{}, "alice")

	assert.Equal(t, []MemberDTO{
		{ConnectionID: "a", Username: "alice"},
		{ConnectionID: "b", Username: "bob"},
	}, r.MembersSnapshot())
	assert.Equal(t, 2, r.MemberCount())
	assert.Equal(t, 2, r.Slots().Capacity())
}

func TestRoom_BroadcastDoesNotWaitForSequence(t *testing.T) {
	r := NewRoomService(domain.Room{ID: 1, Name: "lobby"}, 3)
	a := &stubSignal{}
	admit(r, "a", a, "alice")

	inside, release := make(chan struct{}), make(chan struct{})
	go r.Sequence(func(Fanout) {
		close(inside)
		<-release
	})
	<-inside
	defer close(release)

	done := make(chan PublishResult, 1)
	go func() { done <- r.Broadcast("", Frame(`{"type":"stream"}`)) }()
	select {
	case res := <-done:
		assert.Equal(t, 1, res.SendTo)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast waited for a running sequence")
	}
}
