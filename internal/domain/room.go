package domain

import "strconv"

type (
	RoomName string
	RoomID   int64
)

func (id RoomID) String() string { return strconv.FormatInt(int64(id), 10) }

// Room is the name<->id pair owned by the room catalog.
type Room struct {
	ID   RoomID   `json:"id"`
	Name RoomName `json:"name"`
}
