package desktop

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

type fakeAudio struct {
	cues   []audio.Cue
	volume config.Volume
}

func (f *fakeAudio) Play(c audio.Cue) { f.cues = append(f.cues, c) }

func (f *fakeAudio) SetVolume(v config.Volume) { f.volume = v }

func newTestSession(t *testing.T) (*Session, *clock.Manual, *fakeAudio) {
	t.Helper()
	clk := clock.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	a := &fakeAudio{}
	s := NewSession(Options{
		Audio:  a,
		Clock:  clk,
		Logger: log.New(io.Discard),
	})
	return s, clk, a
}

func TestTitleSettings(t *testing.T) {
	s, _, a := newTestSession(t)

	s.Update(Frame{Right: true})
	if got := s.Difficulty().Name; got != config.CycleDifficulty(config.DefaultDifficulty, 1).Name {
		t.Errorf("difficulty = %s after right", got)
	}
	s.Update(Frame{Left: true})
	if got := s.Difficulty().Name; got != config.DefaultDifficulty.Name {
		t.Errorf("difficulty = %s after left, want default", got)
	}

	s.Update(Frame{UpTap: true})
	if s.Volume() != config.VolumeHigh || a.volume != config.VolumeHigh {
		t.Errorf("volume = %s (audio %s), want High", s.Volume(), a.volume)
	}
	s.Update(Frame{DownTap: true})
	if s.Volume() != config.VolumeNormal {
		t.Errorf("volume = %s, want Normal", s.Volume())
	}
}

func TestTitleBackQuits(t *testing.T) {
	s, _, _ := newTestSession(t)
	if s.Update(Frame{Back: true}) {
		t.Error("Update returned true after escape on the title screen")
	}
}

func TestConfirmStartsRound(t *testing.T) {
	s, _, _ := newTestSession(t)
	if !s.Update(Frame{Confirm: true}) || s.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", s.Phase())
	}
}

func TestDragThrowsGrenade(t *testing.T) {
	s, clk, a := newTestSession(t)
	s.Update(Frame{Confirm: true})

	clk.Advance(config.TargetFrameTime)
	s.Update(Frame{Cursor: physics.Vec{X: 400, Y: 100}, Press: true})
	if !s.Snapshot().Aiming {
		t.Fatal("press did not start aiming")
	}

	clk.Advance(config.TargetFrameTime)
	s.Update(Frame{Cursor: physics.Vec{X: 480, Y: 100}, Release: true})
	snap := s.Snapshot()
	if snap.Aiming || len(snap.Grenades) != 1 {
		t.Errorf("after release: aiming %v, %d grenades; want one thrown", snap.Aiming, len(snap.Grenades))
	}
	if len(a.cues) == 0 || a.cues[0] != audio.CueThrow {
		t.Errorf("cues = %v, want throw", a.cues)
	}
}

func TestBackDuringRoundCommits(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Update(Frame{Confirm: true})
	s.world.Board().Add(4)

	s.Update(Frame{Back: true})
	if s.Phase() != PhaseTitle {
		t.Fatalf("phase = %s, want title", s.Phase())
	}
	if got := s.world.Board().High(); got != 4 {
		t.Errorf("high = %d, want 4", got)
	}
}

func TestDeathAndRetry(t *testing.T) {
	s, _, a := newTestSession(t)
	s.Update(Frame{Confirm: true})

	s.handleEvents([]world.Event{
		{Type: world.EventPlayerDied, Score: 9},
		{Type: world.EventHighScore, Score: 9},
	})
	score, high := s.FinalScore()
	if s.Phase() != PhaseOver || score != 9 || !high {
		t.Fatalf("phase %s score %d high %v", s.Phase(), score, high)
	}
	if len(a.cues) != 2 || a.cues[0] != audio.CueDeath || a.cues[1] != audio.CueHighScore {
		t.Errorf("cues = %v", a.cues)
	}

	s.Update(Frame{Confirm: true})
	if _, high := s.FinalScore(); s.Phase() != PhasePlaying || high {
		t.Errorf("retry left phase %s, high %v", s.Phase(), high)
	}
}

func TestCloseCommitsRunningRound(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Update(Frame{Confirm: true})
	s.world.Board().Add(2)

	s.Close()
	if got := s.world.Board().High(); got != 2 {
		t.Errorf("high = %d after close, want 2", got)
	}
}

func TestIntents(t *testing.T) {
	cursor := physics.Vec{X: 10, Y: 20}
	in := Intents(Frame{Up: true, Right: true, Cursor: cursor, Press: true, Release: true})

	if !in.MoveUp || in.MoveDown || in.DodgeLeft || !in.DodgeRight {
		t.Errorf("intents = %+v, want MoveUp and DodgeRight", in)
	}
	want := []world.PointerKind{world.PointerMoved, world.AimStarted, world.AimReleased}
	if len(in.Pointer) != len(want) {
		t.Fatalf("got %d pointer events, want %d", len(in.Pointer), len(want))
	}
	for i, ev := range in.Pointer {
		if ev.Kind != want[i] || ev.Pos != cursor {
			t.Errorf("pointer[%d] = %+v, want kind %d at %v", i, ev, want[i], cursor)
		}
	}
}

func TestHitThrowsDebris(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Update(Frame{Confirm: true})

	s.handleEvents([]world.Event{{Type: world.EventPlayerHit, Pos: physics.Vec{X: 400, Y: 300}}})
	if got := len(s.Debris()); got != config.DebrisPerHit {
		t.Errorf("%d debris pieces after a hit, want %d", got, config.DebrisPerHit)
	}
}
