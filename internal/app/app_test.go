package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSignal struct{}

func (nopSignal) TrySend(core.Frame) error               { return nil }
func (nopSignal) Send(context.Context, core.Frame) error { return nil }
func (nopSignal) Close()                                 {}

func TestRegistry_UnbindRunsOnce(t *testing.T) {
	r := NewRegistry()
	var canceled atomic.Int32
	sess := core.NewMemberSession("a", domain.NewMember(), nopSignal{})
	r.BindSignal(sess, domain.Handshake{}, func() { canceled.Add(1) })
	require.Equal(t, 1, r.Count())

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Unbind("a", func(*Conn) { calls.Add(1) })
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), canceled.Load())
	assert.Equal(t, 0, r.Count())
	assert.True(t, sess.Meta().Closed)
	assert.False(t, r.Do("a", func(*Conn) { t.Fatal("closed connection must not run") }))
}

func TestRegistry_HandshakeOnFirstTakeOnly(t *testing.T) {
	r := NewRegistry()
	hs := domain.ParseHandshake("true", "5")
	r.BindSignal(core.NewMemberSession("a", domain.NewMember(), nopSignal{}), hs, nil)

	var first, second domain.Handshake
	r.Do("a", func(c *Conn) {
		first = c.TakeHandshake()
		second = c.TakeHandshake()
	})
	assert.Equal(t, domain.ReplaySuffix, first.Plan().Mode)
	assert.Equal(t, domain.ReplayFull, second.Plan().Mode)
}

func TestRegistry_SendToMissingTarget(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.SendTo("ghost", core.Frame(`{}`)))
}

func TestRoomManager_OnePoolPerRoom(t *testing.T) {
	m := NewRoomManager(2)
	lobby := domain.Room{ID: 1, Name: "lobby"}
	a := m.GetOrCreate(lobby)
	b := m.GetOrCreate(lobby)
	assert.Same(t, a, b)
	c := m.GetOrCreate(domain.Room{ID: 2, Name: "garden"})

	assert.Equal(t, 0, a.Slots().Assign("alice"))
	assert.Equal(t, 0, c.Slots().Assign("bob"))

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.RoomName("garden"), list[0].Name)
	assert.Equal(t, []string{"alice", ""}, list[1].Slots)
	assert.Equal(t, 2, list[1].Capacity)
}

type countingCatalog struct {
	calls atomic.Int32
}

func (c *countingCatalog) Exists(_ context.Context, name domain.RoomName) (domain.Room, error) {
	c.calls.Add(1)
	if name != "lobby" {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return domain.Room{ID: 7, Name: name}, nil
}

func (c *countingCatalog) Create(_ context.Context, name domain.RoomName) (domain.Room, error) {
	return domain.Room{ID: 8, Name: name}, nil
}

func (c *countingCatalog) List(context.Context) ([]domain.Room, error) { return nil, nil }

func TestCachedCatalog(t *testing.T) {
	ctx := context.Background()
	backend := &countingCatalog{}
	c := NewCachedCatalog(backend)

	for i := 0; i < 3; i++ {
		room, err := c.Exists(ctx, "lobby")
		require.NoError(t, err)
		assert.Equal(t, domain.RoomID(7), room.ID)
	}
	assert.Equal(t, int32(1), backend.calls.Load())

	_, err := c.Exists(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, err = c.Exists(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, int32(3), backend.calls.Load(), "misses are not cached")

	_, err = c.Create(ctx, "garden")
	require.NoError(t, err)
	room, err := c.Exists(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID(8), room.ID)
	assert.Equal(t, int32(3), backend.calls.Load())
}
