package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump ping")
				return
			}
		}
	}
}

// readPump owns the terminal cleanup: whatever ends the read loop, the
// connection is unbound exactly once.
func (ctl *SignalWSController) readPump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(sid)
		}
		c.Close()
	}()

	pongWait := ctl.opts.pongWait()
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, sid, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, sid core.SessionID, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.fail(sid, "", badPayload(err))
		return
	}

	var err error
	switch env.Type {
	case core.EventJoinRoom:
		err = ctl.handleJoin(ctx, sid, env.Data)
	case core.EventLeaveRoom:
		err = ctl.handleLeave(sid)
	case core.EventStartStream:
		err = ctl.handleStartStream(ctx, sid, env.Data)
	case core.EventStopStream:
		err = ctl.handleStopStream(ctx, sid, env.Data)
	case core.EventStream:
		err = ctl.handleStream(sid, env.Data)
	case core.EventChatMessage:
		err = ctl.handleChat(ctx, sid, env.Data)
	case core.EventOffer, core.EventAnswer, core.EventICECandidate:
		err = ctl.handleRelay(sid, env.Type, env.Data)
	case core.EventPing:
		ctl.handlePing(sid)
	case core.EventWhoAmI:
		ctl.handleWhoAmI(sid)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("unknown signal")
	}
	if err != nil {
		ctl.fail(sid, env.Type, err)
	}
}

// fail reports err to the caller only. A closed connection has no one left
// to tell.
func (ctl *SignalWSController) fail(sid core.SessionID, event string, err error) {
	if errors.Is(err, core.ErrConnClosed) {
		return
	}
	log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("event", event).Msg("event rejected")
	ctl.Orch.Fail(sid, err)
}

// decode unmarshals an event body. A missing body decodes as the zero value
// so the field checks downstream report what is missing.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badPayload(err)
	}
	return nil
}

func badPayload(err error) error {
	return fmt.Errorf("%w: bad payload: %v", domain.ErrValidation, err)
}
