package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Per-event error classes. Adapters classify with errors.Is and surface the
// message to the triggering connection only.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotJoined         = fmt.Errorf("%w: join a room first", ErrValidation)
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomExists        = errors.New("room already exists")
	ErrSlotPoolExhausted = errors.New("no video slot available")
	ErrStorage           = errors.New("storage error")
	ErrStaleOffset       = errors.New("invalid catch-up offset")
	ErrRateLimited       = errors.New("rate limited")

	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Required returns a validation error naming the missing fields.
func Required(fields ...string) error {
	return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(fields, " and "))
}
