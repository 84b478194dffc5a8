package main

import (
	"testing"
	"time"
)

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)

	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize() = %d, %d, %v; want 120, 40, nil", w, h, err)
	}
}

func TestWaitSessionsTimesOut(t *testing.T) {
	var g game
	g.sessions.Add(1)
	defer g.sessions.Done()

	start := time.Now()
	g.waitSessions(20 * time.Millisecond)
	if time.Since(start) > time.Second {
		t.Error("waitSessions ignored its timeout")
	}
}

func TestWaitSessionsReturnsWhenIdle(t *testing.T) {
	var g game
	done := make(chan struct{})
	go func() {
		g.waitSessions(time.Minute)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waitSessions blocked with no sessions")
	}
}
