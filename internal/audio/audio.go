// Package audio plays short synthesized cues for game events.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a sound effect.
type Cue int

const (
	CueThrow Cue = iota
	CueKill
	CueHit
	CueDodge
	CueDeath
	CueHighScore
)

// Player plays cues. Implementations must not block the caller.
type Player interface {
	Play(c Cue)
}

// Nop discards every cue. Used where no speaker is available, such as SSH sessions.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// CueFor maps a world event to its sound.
func CueFor(t world.EventType) (Cue, bool) {
	switch t {
	case world.EventGrenadeThrown:
		return CueThrow, true
	case world.EventEnemyKilled:
		return CueKill, true
	case world.EventPlayerHit:
		return CueHit, true
	case world.EventPlayerDodged:
		return CueDodge, true
	case world.EventPlayerDied:
		return CueDeath, true
	case world.EventHighScore:
		return CueHighScore, true
	}
	return 0, false
}

// PlayEvents plays the cue of every event in order.
func PlayEvents(p Player, events []world.Event) {
	for _, ev := range events {
		if c, ok := CueFor(ev.Type); ok {
			p.Play(c)
		}
	}
}

// Gain returns the linear gain of a volume level.
func Gain(v config.Volume) float64 {
	switch v {
	case config.VolumeMute:
		return 0
	case config.VolumeLow:
		return 0.25
	case config.VolumeHigh:
		return 1
	default:
		return 0.5
	}
}

// Manager mixes cues onto the system speaker.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      config.Volume
	initialized bool
}

// NewManager creates a manager at volume v. Nothing plays until Initialize succeeds.
func NewManager(v config.Volume) *Manager {
	return &Manager{
		mixer:  &beep.Mixer{},
		volume: v,
	}
}

// Initialize opens the speaker. Calling it again is a no-op.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// SetVolume changes the level of cues played from now on.
func (m *Manager) SetVolume(v config.Volume) {
	m.mu.Lock()
	m.volume = v
	m.mu.Unlock()
}

// Volume returns the current level.
func (m *Manager) Volume() config.Volume {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Play mixes in the cue c. Muted or uninitialized managers drop it.
func (m *Manager) Play(c Cue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gain := Gain(m.volume)
	if !m.initialized || gain <= 0 {
		return
	}
	s := cueStreamer(c, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	m.mixer.Add(withVolume(s, gain))
	speaker.Unlock()
}

// Close silences everything still playing.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.mixer.Clear()
	m.initialized = false
}
