package app

import (
	"context"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedCatalog memoizes room lookups in front of a RoomCatalog. Rooms are
// never deleted, so a resolved name stays valid for the process lifetime.
// Concurrent misses for one name share a single backend query.
type CachedCatalog struct {
	next    core.RoomCatalog
	sfGroup singleflight.Group

	mu    sync.RWMutex
	known map[domain.RoomName]domain.Room
}

func NewCachedCatalog(next core.RoomCatalog) *CachedCatalog {
	return &CachedCatalog{
		next:  next,
		known: make(map[domain.RoomName]domain.Room),
	}
}

func (c *CachedCatalog) Exists(ctx context.Context, name domain.RoomName) (domain.Room, error) {
	c.mu.RLock()
	room, ok := c.known[name]
	c.mu.RUnlock()
	if ok {
		return room, nil
	}

	v, err, _ := c.sfGroup.Do(string(name), func() (any, error) {
		room, err := c.next.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		c.remember(room)
		return room, nil
	})
	if err != nil {
		return domain.Room{}, err
	}
	return v.(domain.Room), nil
}

func (c *CachedCatalog) Create(ctx context.Context, name domain.RoomName) (domain.Room, error) {
	room, err := c.next.Create(ctx, name)
	if err != nil {
		return domain.Room{}, err
	}
	c.remember(room)
	return room, nil
}

func (c *CachedCatalog) List(ctx context.Context) ([]domain.Room, error) {
	return c.next.List(ctx)
}

func (c *CachedCatalog) remember(room domain.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.known[room.Name] = room
}
