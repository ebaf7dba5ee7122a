// Package server holds process-wide state shared by every session: the
// scoreboard, the session registry and the shutdown broadcast.
package server

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/makemelaugh/internal/loop"
)

// DefaultTopN is the leaderboard length when none is given.
const DefaultTopN = 10

// eventBuffer is the per-session event channel capacity.
const eventBuffer = 16

// Scoreboard implements loop.ScoreKeeper for all sessions of one process.
// The high score lives in memory only and never decreases.
type Scoreboard struct {
	mu       sync.RWMutex
	high     int
	holder   string
	top      []TopScoreEntry
	topN     int
	seq      int
	sessions map[int]*SessionHandle
	nextID   int
	closing  bool
	log      *log.Logger
}

var _ loop.ScoreKeeper = (*Scoreboard)(nil)

// NewScoreboard creates an empty scoreboard keeping the best topN runs.
func NewScoreboard(topN int, logger *log.Logger) *Scoreboard {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scoreboard{
		topN:     topN,
		sessions: make(map[int]*SessionHandle),
		nextID:   1,
		log:      logger,
	}
}

// HighScore returns the best score so far.
func (s *Scoreboard) HighScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.high
}

// Holder returns the name of the high score holder.
func (s *Scoreboard) Holder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holder
}

// Submit records a finished run. It returns true only if score strictly beat
// the previous high score; other sessions are then notified.
func (s *Scoreboard) Submit(name string, score int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.insertLocked(TopScoreEntry{Username: name, Score: score, seq: s.seq})

	if score <= s.high {
		return false
	}
	s.high = score
	s.holder = name
	s.log.Info("new high score", "player", name, "score", score)

	for _, h := range s.sessions {
		select {
		case h.EventsCh <- SessionEvent{Type: EventHighScore, Username: name, Score: score}:
		default:
		}
	}
	return true
}

func (s *Scoreboard) insertLocked(e TopScoreEntry) {
	s.top = append(s.top, e)
	sort.SliceStable(s.top, func(i, j int) bool {
		if s.top[i].Score != s.top[j].Score {
			return s.top[i].Score > s.top[j].Score
		}
		return s.top[i].seq < s.top[j].seq
	})
	if len(s.top) > s.topN {
		s.top = s.top[:s.topN]
	}
}

// Top returns a copy of the leaderboard, best first.
func (s *Scoreboard) Top() []TopScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TopScoreEntry, len(s.top))
	copy(out, s.top)
	return out
}

// Register adds a session and returns its handle. After Shutdown has started
// the handle receives the shutdown event straight away.
func (s *Scoreboard) Register(username string) *SessionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &SessionHandle{
		ID:       s.nextID,
		Username: username,
		EventsCh: make(chan SessionEvent, eventBuffer),
	}
	s.nextID++
	s.sessions[h.ID] = h
	if s.closing {
		h.EventsCh <- SessionEvent{Type: EventServerShutdown}
	}
	s.log.Debug("session registered", "id", h.ID, "user", username, "sessions", len(s.sessions))
	return h
}

// Unregister removes a session and closes its event channel.
func (s *Scoreboard) Unregister(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.sessions[id]; ok {
		close(h.EventsCh)
		delete(s.sessions, id)
		s.log.Debug("session unregistered", "id", id, "sessions", len(s.sessions))
	}
}

// Sessions returns the number of connected sessions.
func (s *Scoreboard) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown notifies every session and waits for them to disconnect, up to
// the given timeout.
func (s *Scoreboard) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.closing = true
	for _, h := range s.sessions {
		notifyShutdown(h)
	}
	s.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Sessions() == 0 {
			return
		}
		select {
		case <-deadline:
			s.log.Warn("shutdown timeout", "sessions", s.Sessions())
			return
		case <-ticker.C:
		}
	}
}

// notifyShutdown queues the shutdown event, dropping the oldest pending
// event when the session's queue is full. Callers hold the write lock, so
// no other sender can take the freed slot.
func notifyShutdown(h *SessionHandle) {
	ev := SessionEvent{Type: EventServerShutdown}
	select {
	case h.EventsCh <- ev:
		return
	default:
	}
	select {
	case <-h.EventsCh:
	default:
	}
	select {
	case h.EventsCh <- ev:
	default:
	}
}
