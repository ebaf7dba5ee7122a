package server

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	seq      int // Submission order; earlier runs win ties
}

// SessionHandle represents one connected session.
type SessionHandle struct {
	ID       int
	Username string
	EventsCh chan SessionEvent // Events sent to the session
}

// SessionEvent represents an event sent from the scoreboard to a session.
type SessionEvent struct {
	Type     SessionEventType
	Username string // Record holder, for high score events
	Score    int
}

// SessionEventType identifies the type of session event.
type SessionEventType int

const (
	EventHighScore SessionEventType = iota
	EventServerShutdown
)

func (t SessionEventType) String() string {
	switch t {
	case EventHighScore:
		return "high_score"
	case EventServerShutdown:
		return "server_shutdown"
	default:
		return "unknown"
	}
}
