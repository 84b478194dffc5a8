package clock

import (
	"math"
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)

	if got := m.Now(); !got.Equal(start) {
		t.Fatalf("Now = %v, want %v", got, start)
	}

	m.Advance(1500 * time.Millisecond)
	if got := m.Now().Sub(start); got != 1500*time.Millisecond {
		t.Errorf("elapsed after Advance = %v, want 1.5s", got)
	}

	later := start.Add(time.Hour)
	m.Set(later)
	if got := m.Now(); !got.Equal(later) {
		t.Errorf("Now after Set = %v, want %v", got, later)
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	var c Clock = System{}
	t1 := c.Now()
	t2 := c.Now()
	if t2.Before(t1) {
		t.Errorf("system clock went backwards: %v then %v", t1, t2)
	}
}

func TestTimeScaleFrame(t *testing.T) {
	frame := time.Second / 60
	s := TimeScale{Speed: 1.75, AimFactor: 0.4, TargetFrame: frame, MaxFrameRatio: 3}

	tests := []struct {
		name   string
		delta  time.Duration
		aiming bool
		want   float64
	}{
		{"one frame", frame, false, 1.75},
		{"aiming", frame, true, 0.7},
		{"first frame", 0, false, 1.75},
		{"half frame", frame / 2, false, 0.875},
		{"stalled frame capped", 10 * frame, false, 1.75 * 3},
	}
	for _, tt := range tests {
		if got := s.Frame(tt.delta, tt.aiming); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Frame = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestTimeScaleFixedStepIsExact(t *testing.T) {
	frame := time.Second / 60
	s := TimeScale{Speed: 1, AimFactor: 0.4, TargetFrame: frame, MaxFrameRatio: 3}
	if got := s.Frame(frame, false); got != 1 {
		t.Errorf("Frame(target) = %v, want exactly 1", got)
	}
}
