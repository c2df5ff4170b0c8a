package domain

import (
	"strconv"
	"time"
)

// MessageID is assigned by the message log. IDs are globally increasing, so
// they are strictly increasing within every room as well.
type MessageID int64

func (id MessageID) String() string { return strconv.FormatInt(int64(id), 10) }

type Message struct {
	ID        MessageID `json:"id"`
	RoomID    RoomID    `json:"room_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
