// Package domain contains entities without transport or storage logic.
package domain

import "fmt"

const (
	MaxUsernameLen = 36
	MaxRoomNameLen = 64
)

type UserID int64

// User is a registered account. Socket identity does not depend on it:
// usernames on the real-time channel are self-asserted.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return Required("username")
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username too long", ErrValidation)
	}
	return nil
}

func ValidateRoomName(name RoomName) error {
	if len(name) == 0 {
		return Required("room name")
	}
	if len(name) > MaxRoomNameLen {
		return fmt.Errorf("%w: room name too long", ErrValidation)
	}
	return nil
}
