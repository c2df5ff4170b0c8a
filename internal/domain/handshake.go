package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Handshake is what a client reports when it opens the real-time channel.
// Resumed marks a reconnect after a dropped transport; Offset is the last
// message id the client has already seen.
type Handshake struct {
	Resumed   bool
	Offset    *MessageID
	OffsetErr error
}

// ParseHandshake reads the raw handshake values. An absent offset stays nil;
// a malformed or negative offset is kept as OffsetErr and never coerced to 0.
func ParseHandshake(resumed, offset string) Handshake {
	var hs Handshake
	if b, err := strconv.ParseBool(strings.TrimSpace(resumed)); err == nil {
		hs.Resumed = b
	}
	raw := strings.TrimSpace(offset)
	if raw == "" {
		return hs
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		hs.OffsetErr = fmt.Errorf("%w: %q", ErrStaleOffset, offset)
		return hs
	}
	id := MessageID(n)
	hs.Offset = &id
	return hs
}

type ReplayMode int

const (
	// ReplayFull sends the whole room history.
	ReplayFull ReplayMode = iota
	// ReplaySuffix sends only messages after Since.
	ReplaySuffix
	// ReplaySkip sends nothing; the offset was rejected.
	ReplaySkip
)

type ReplayPlan struct {
	Mode  ReplayMode
	Since MessageID
	Err   error
}

// Plan decides which part of the history a joining connection receives.
func (hs Handshake) Plan() ReplayPlan {
	if hs.OffsetErr != nil {
		return ReplayPlan{Mode: ReplaySkip, Err: hs.OffsetErr}
	}
	if !hs.Resumed || hs.Offset == nil {
		return ReplayPlan{Mode: ReplayFull}
	}
	return ReplayPlan{Mode: ReplaySuffix, Since: *hs.Offset}
}
