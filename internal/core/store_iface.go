package core

import (
	"context"

	"github.com/dkeye/huddle/internal/domain"
)

// MessageLog is the durable, append-only chat history.
type MessageLog interface {
	// Append stores a message and returns it with its assigned id. It fails
	// with domain.ErrStorage when roomID does not resolve.
	Append(ctx context.Context, roomID domain.RoomID, username, content string) (domain.Message, error)
	// ListFrom returns the room's messages with id > since in ascending id order.
	ListFrom(ctx context.Context, roomID domain.RoomID, since domain.MessageID) ([]domain.Message, error)
}

// RoomCatalog owns room creation and the name<->id mapping.
type RoomCatalog interface {
	Exists(ctx context.Context, name domain.RoomName) (domain.Room, error)
	Create(ctx context.Context, name domain.RoomName) (domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

// UserStore holds registered accounts.
type UserStore interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}
