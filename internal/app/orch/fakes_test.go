package orch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (s *fakeSignal) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrConnClosed
	}
	if s.full {
		return core.ErrBackpressure
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSignal) Send(_ context.Context, f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrConnClosed
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSignal) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSignal) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeSignal) envelopes(t *testing.T) []core.Envelope {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Envelope, 0, len(s.frames))
	for _, f := range s.frames {
		var env core.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env)
	}
	return out
}

func (s *fakeSignal) types(t *testing.T) []string {
	var out []string
	for _, env := range s.envelopes(t) {
		out = append(out, env.Type)
	}
	return out
}

func (s *fakeSignal) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

// ofType decodes the data of every event of the given type into T.
func ofType[T any](t *testing.T, s *fakeSignal, typ string) []T {
	t.Helper()
	var out []T
	for _, env := range s.envelopes(t) {
		if env.Type != typ {
			continue
		}
		var v T
		require.NoError(t, json.Unmarshal(env.Data, &v))
		out = append(out, v)
	}
	return out
}

type memCatalog struct {
	mu    sync.Mutex
	rooms map[domain.RoomName]domain.Room
	next  domain.RoomID
}

func newMemCatalog(names ...domain.RoomName) *memCatalog {
	c := &memCatalog{rooms: make(map[domain.RoomName]domain.Room)}
	for _, n := range names {
		_, _ = c.Create(context.Background(), n)
	}
	return c
}

func (c *memCatalog) Exists(_ context.Context, name domain.RoomName) (domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[name]
	if !ok {
		return domain.Room{}, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, name)
	}
	return r, nil
}

func (c *memCatalog) Create(_ context.Context, name domain.RoomName) (domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rooms[name]; ok {
		return domain.Room{}, domain.ErrRoomExists
	}
	c.next++
	r := domain.Room{ID: c.next, Name: name}
	c.rooms[name] = r
	return r, nil
}

func (c *memCatalog) List(_ context.Context) ([]domain.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Room, 0, len(c.rooms))
	for _, r := range c.rooms {
		out = append(out, r)
	}
	return out, nil
}

type memLog struct {
	mu   sync.Mutex
	msgs []domain.Message
	last domain.MessageID
	fail bool
}

func (l *memLog) Append(_ context.Context, roomID domain.RoomID, username, content string) (domain.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return domain.Message{}, fmt.Errorf("%w: disk on fire", domain.ErrStorage)
	}
	if content == "" {
		return domain.Message{}, errors.New("empty content")
	}
	l.last++
	m := domain.Message{ID: l.last, RoomID: roomID, Username: username, Content: content}
	l.msgs = append(l.msgs, m)
	return m, nil
}

func (l *memLog) ListFrom(_ context.Context, roomID domain.RoomID, since domain.MessageID) ([]domain.Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Message
	for _, m := range l.msgs {
		if m.RoomID == roomID && m.ID > since {
			out = append(out, m)
		}
	}
	return out, nil
}

type harness struct {
	o       *Orchestrator
	catalog *memCatalog
	log     *memLog
}

func newHarness(capacity int, rooms ...domain.RoomName) *harness {
	catalog := newMemCatalog(rooms...)
	log := &memLog{}
	return &harness{
		o: &Orchestrator{
			Registry: app.NewRegistry(),
			Rooms:    app.NewRoomManager(capacity),
			Catalog:  catalog,
			Log:      log,
			Policy:   app.SimplePolicy{},
		},
		catalog: catalog,
		log:     log,
	}
}

func (h *harness) connect(sid core.SessionID, hs domain.Handshake) *fakeSignal {
	sig := &fakeSignal{}
	sess := core.NewMemberSession(sid, domain.NewMember(), sig)
	h.o.Connect(sess, hs, func() {})
	return sig
}

// joined connects sid and joins room as username, discarding frames so far.
func (h *harness) joined(t *testing.T, sid core.SessionID, room domain.RoomName, username string) *fakeSignal {
	t.Helper()
	sig := h.connect(sid, domain.Handshake{})
	require.NoError(t, h.o.Join(context.Background(), sid, room, username))
	return sig
}

func (h *harness) seed(t *testing.T, room domain.RoomName, n int) {
	t.Helper()
	r, err := h.catalog.Exists(context.Background(), room)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := h.log.Append(context.Background(), r.ID, "seed", fmt.Sprintf("%s-%d", room, i))
		require.NoError(t, err)
	}
}

// gatedLog holds the first Append open until release is closed.
type gatedLog struct {
	*memLog
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedLog(l *memLog) *gatedLog {
	return &gatedLog{memLog: l, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLog) Append(ctx context.Context, roomID domain.RoomID, username, content string) (domain.Message, error) {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.memLog.Append(ctx, roomID, username, content)
}
