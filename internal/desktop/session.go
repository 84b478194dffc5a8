// Package desktop drives the windowed frontend: menus, round flow and sound
// cues around one World. Window and input plumbing live with the ebiten game
// in cmd/desktop; this package only sees a Frame per tick.
package desktop

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/loop/world"
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
	"github.com/SpinellyA/freefall-io/internal/score"
)

// Phase is the screen the session is on.
type Phase int

const (
	PhaseTitle Phase = iota
	PhasePlaying
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	}
	return "unknown"
}

// Frame is the input sampled for one tick. Held keys are level-triggered,
// everything else fires on the tick it happened.
type Frame struct {
	Up, Down       bool // Held
	UpTap, DownTap bool
	Left, Right    bool // Just pressed
	Confirm        bool // Enter or Space
	Back           bool // Escape

	Cursor  physics.Vec // Logical coordinates
	Press   bool
	Release bool
}

type volumeSetter interface {
	SetVolume(config.Volume)
}

// Options configure a Session.
type Options struct {
	Difficulty config.Difficulty
	Volume     config.Volume
	Board      *score.Board
	Audio      audio.Player // Defaults to audio.Nop
	Clock      clock.Clock
	Logger     *log.Logger
}

// Session is one player's game in a window.
type Session struct {
	world  *world.World
	debris *object.DebrisField
	audio  audio.Player
	log    *log.Logger
	phase  Phase
	volume config.Volume

	finalScore   int
	newHighScore bool
}

// NewSession creates a session on the title screen.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Volume == "" {
		opts.Volume = config.VolumeNormal
	}
	return &Session{
		world: world.New(world.Options{
			Difficulty: opts.Difficulty,
			Clock:      opts.Clock,
			Board:      opts.Board,
			Logger:     opts.Logger,
		}),
		debris: object.NewDebrisField(rand.New(rand.NewSource(time.Now().UnixNano()))),
		audio:  opts.Audio,
		log:    opts.Logger,
		volume: opts.Volume,
	}
}

// Phase returns the current screen.
func (s *Session) Phase() Phase { return s.phase }

// Difficulty returns the selected difficulty.
func (s *Session) Difficulty() config.Difficulty { return s.world.Difficulty() }

// Volume returns the selected volume.
func (s *Session) Volume() config.Volume { return s.volume }

// FinalScore returns the score of the last finished round and whether it set
// a new high score.
func (s *Session) FinalScore() (int, bool) { return s.finalScore, s.newHighScore }

// Debris returns the live fragments for drawing.
func (s *Session) Debris() []*object.Debris { return s.debris.Pieces() }

// Snapshot returns the world state for drawing.
func (s *Session) Snapshot() world.Snapshot { return s.world.Snapshot() }

// Update advances one tick. It returns false once the player has quit.
func (s *Session) Update(f Frame) bool {
	switch s.phase {
	case PhaseTitle:
		return s.updateTitle(f)
	case PhasePlaying:
		s.updatePlaying(f)
	case PhaseOver:
		switch {
		case f.Confirm:
			s.startRound()
		case f.Back:
			s.phase = PhaseTitle
		}
	}
	return true
}

// Close commits a round still in progress.
func (s *Session) Close() {
	if s.phase == PhasePlaying {
		s.world.Board().Commit()
	}
}

func (s *Session) updateTitle(f Frame) bool {
	switch {
	case f.Back:
		return false
	case f.Confirm:
		s.startRound()
	case f.Left:
		s.world.SetDifficulty(config.CycleDifficulty(s.world.Difficulty(), -1))
	case f.Right:
		s.world.SetDifficulty(config.CycleDifficulty(s.world.Difficulty(), 1))
	case f.UpTap:
		s.cycleVolume(1)
	case f.DownTap:
		s.cycleVolume(-1)
	}
	return true
}

func (s *Session) cycleVolume(step int) {
	s.volume = config.CycleVolume(s.volume, step)
	if vs, ok := s.audio.(volumeSetter); ok {
		vs.SetVolume(s.volume)
	}
}

func (s *Session) startRound() {
	s.world.Board().Refresh()
	s.world.NewRound()
	s.debris.Clear()
	s.finalScore = 0
	s.newHighScore = false
	s.phase = PhasePlaying
}

func (s *Session) updatePlaying(f Frame) {
	if f.Back {
		s.world.Board().Commit()
		s.phase = PhaseTitle
		return
	}
	s.world.Step(Intents(f))
	s.debris.Update(s.world.TimeScale())
	s.handleEvents(s.world.DrainEvents())
}

func (s *Session) handleEvents(events []world.Event) {
	audio.PlayEvents(s.audio, events)
	for _, ev := range events {
		switch ev.Type {
		case world.EventEnemyKilled:
			s.debris.Burst(ev.Pos, config.DebrisPerKill)
		case world.EventPlayerHit:
			s.debris.Burst(ev.Pos, config.DebrisPerHit)
		case world.EventPlayerDied:
			s.finalScore = ev.Score
			s.phase = PhaseOver
			s.log.Info("player died", "score", ev.Score, "difficulty", s.world.Difficulty().Name)
		case world.EventHighScore:
			s.newHighScore = true
			s.log.Info("new high score", "score", ev.Score)
		}
	}
}

// Intents maps a frame to world commands. The cursor position is reported
// every tick so the aim line tracks it before any press or release.
func Intents(f Frame) world.Intents {
	in := world.Intents{
		MoveUp:     f.Up,
		MoveDown:   f.Down,
		DodgeLeft:  f.Left,
		DodgeRight: f.Right,
		Pointer:    []world.PointerEvent{{Kind: world.PointerMoved, Pos: f.Cursor}},
	}
	if f.Press {
		in.Pointer = append(in.Pointer, world.PointerEvent{Kind: world.AimStarted, Pos: f.Cursor})
	}
	if f.Release {
		in.Pointer = append(in.Pointer, world.PointerEvent{Kind: world.AimReleased, Pos: f.Cursor})
	}
	return in
}
