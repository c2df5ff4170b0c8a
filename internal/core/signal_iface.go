package core

import (
	"context"
	"errors"
)

// Frame is a raw encoded payload.
type Frame []byte

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SignalConnection abstracts the real-time messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking; a full queue yields ErrBackpressure.
	TrySend(f Frame) error
	// Send blocks until f is queued, the connection closes or ctx is done.
	Send(ctx context.Context, f Frame) error
	Close()
}
