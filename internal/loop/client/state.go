package client

import (
	"time"

	"github.com/tomz197/makemelaugh/internal/loop"
)

// sessionState holds what the driver tracks around the world: liveness,
// inactivity and server notices.
type sessionState struct {
	running       bool
	shuttingDown  bool
	shutdownTimer float64 // Seconds until auto-disconnect on shutdown

	lastInput  time.Time
	lastStick  int8
	isInactive bool

	notice      string // Broadcast from another session
	noticeUntil time.Time

	prevState   loop.GameState
	wasInactive bool
	delta       time.Duration
}

func newSessionState(now time.Time) *sessionState {
	return &sessionState{
		running:   true,
		lastInput: now,
		prevState: loop.StateAttract,
	}
}
