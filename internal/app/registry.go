package app

import (
	"context"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Conn is the registry entry of one live connection. Its member meta is only
// touched inside Registry.Do / Registry.Unbind, which hold mu.
type Conn struct {
	mu        sync.Mutex
	session   core.MemberSession
	handshake domain.Handshake
	replayed  bool
	cancel    context.CancelFunc
}

func (c *Conn) Session() core.MemberSession { return c.session }
func (c *Conn) Meta() *domain.Member        { return c.session.Meta() }

// TakeHandshake returns the connect-time handshake for the first join only;
// later joins are treated as fresh.
func (c *Conn) TakeHandshake() domain.Handshake {
	if c.replayed {
		return domain.Handshake{}
	}
	c.replayed = true
	return c.handshake
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Conn
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*Conn),
	}
}

func (r *Registry) BindSignal(sess core.MemberSession, hs domain.Handshake, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.SID()] = &Conn{session: sess, handshake: hs, cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sess.SID())).Bool("resumed", hs.Resumed).Msg("bound signal")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.sessions[sid]; ok {
		return c.session, true
	}
	return nil, false
}

// Do runs fn with exclusive access to the connection state. It reports false
// when sid is unknown or already disconnected.
func (r *Registry) Do(sid core.SessionID, fn func(c *Conn)) bool {
	r.mu.RLock()
	c, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Meta().Closed {
		return false
	}
	fn(c)
	return true
}

// Unbind removes sid and runs fn once with the connection marked closed.
// Operations already inside Do finish first; later ones are refused.
func (r *Registry) Unbind(sid core.SessionID, fn func(c *Conn)) bool {
	r.mu.Lock()
	c, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.mu.Unlock()
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Meta().Closed = true
	if fn != nil {
		fn(c)
	}
	if c.cancel != nil {
		c.cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return true
}

// SendTo queues f for exactly one connection. A missing target is not an
// error; the frame is dropped.
func (r *Registry) SendTo(sid core.SessionID, f core.Frame) bool {
	sess, ok := r.GetSession(sid)
	if !ok {
		log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Msg("sendTo: no such connection")
		return false
	}
	if err := sess.Signal().TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "app.registry").Str("sid", string(sid)).Msg("sendTo dropped")
		return false
	}
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
