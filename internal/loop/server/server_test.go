package server

import (
	"testing"
	"time"
)

func TestSubmitStrictlyGreater(t *testing.T) {
	s := NewScoreboard(3, nil)

	if !s.Submit("ann", 10) {
		t.Fatal("first positive score should be a new high")
	}
	if s.Submit("bob", 10) {
		t.Error("tying the high score should not count")
	}
	if s.Submit("cat", 5) {
		t.Error("lower score should not count")
	}
	if !s.Submit("dan", 11) {
		t.Error("beating the high score should count")
	}
	if s.HighScore() != 11 || s.Holder() != "dan" {
		t.Errorf("high = %d by %q, want 11 by dan", s.HighScore(), s.Holder())
	}
}

func TestZeroScoreIsNotAHighScore(t *testing.T) {
	s := NewScoreboard(0, nil)
	if s.Submit("ann", 0) {
		t.Error("zero should not beat the initial high score of zero")
	}
}

func TestTopOrderAndTrim(t *testing.T) {
	s := NewScoreboard(3, nil)
	s.Submit("a", 5)
	s.Submit("b", 9)
	s.Submit("c", 5)
	s.Submit("d", 1)
	s.Submit("e", 7)

	top := s.Top()
	want := []string{"b", "e", "a"}
	if len(top) != len(want) {
		t.Fatalf("top has %d entries, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Username != name {
			t.Errorf("top[%d] = %s, want %s (earlier run wins ties)", i, top[i].Username, name)
		}
	}

	top[0].Score = 1000
	if s.Top()[0].Score == 1000 {
		t.Error("Top returned internal slice")
	}
}

func TestHighScoreEventBroadcast(t *testing.T) {
	s := NewScoreboard(0, nil)
	h := s.Register("watcher")

	s.Submit("ann", 3)
	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventHighScore || ev.Username != "ann" || ev.Score != 3 {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("no high score event")
	}

	s.Submit("bob", 2)
	select {
	case ev := <-h.EventsCh:
		t.Errorf("unexpected event %+v", ev)
	default:
	}
}

func TestRegisterUnregister(t *testing.T) {
	s := NewScoreboard(0, nil)
	a := s.Register("a")
	b := s.Register("b")
	if a.ID == b.ID {
		t.Fatal("duplicate session ids")
	}
	if s.Sessions() != 2 {
		t.Fatalf("sessions = %d, want 2", s.Sessions())
	}

	s.Unregister(a.ID)
	if _, ok := <-a.EventsCh; ok {
		t.Error("events channel not closed")
	}
	s.Unregister(a.ID) // Second call is a no-op
	if s.Sessions() != 1 {
		t.Errorf("sessions = %d, want 1", s.Sessions())
	}
}

func TestShutdownWaitsForSessions(t *testing.T) {
	s := NewScoreboard(0, nil)
	h := s.Register("a")

	go func() {
		for ev := range h.EventsCh {
			if ev.Type == EventServerShutdown {
				s.Unregister(h.ID)
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Shutdown did not return after the session left")
	}

	late := s.Register("late")
	select {
	case ev := <-late.EventsCh:
		if ev.Type != EventServerShutdown {
			t.Errorf("late session got %v", ev.Type)
		}
	default:
		t.Error("late session not told about shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	s := NewScoreboard(0, nil)
	s.Register("stuck")

	start := time.Now()
	s.Shutdown(50 * time.Millisecond)
	if time.Since(start) > 2*time.Second {
		t.Error("Shutdown ignored its timeout")
	}
}

func TestShutdownReachesFullQueue(t *testing.T) {
	s := NewScoreboard(0, nil)
	h := s.Register("busy")
	for i := 1; i <= eventBuffer+4; i++ {
		s.Submit("other", i)
	}
	if len(h.EventsCh) != eventBuffer {
		t.Fatalf("queued = %d, want a full queue of %d", len(h.EventsCh), eventBuffer)
	}

	s.Shutdown(10 * time.Millisecond)

	var last SessionEvent
	for len(h.EventsCh) > 0 {
		last = <-h.EventsCh
	}
	if last.Type != EventServerShutdown {
		t.Errorf("last event = %v, want shutdown", last.Type)
	}
}
