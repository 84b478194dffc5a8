package client

import (
	"time"

	"github.com/SpinellyA/freefall-io/internal/input"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// GameState represents the current screen of a session.
type GameState int

const (
	GameStateTitle    GameState = iota // Title menu
	GameStateSettings                  // Difficulty and volume
	GameStatePlaying                   // Active round
	GameStateDead                      // Round over, show score
	GameStateShutdown                  // Server is shutting down
)

func (s GameState) String() string {
	switch s {
	case GameStateTitle:
		return "title"
	case GameStateSettings:
		return "settings"
	case GameStatePlaying:
		return "playing"
	case GameStateDead:
		return "dead"
	case GameStateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// Title menu entries.
const (
	titlePlay = iota
	titleSettings
	titleQuit
	titleItems
)

// Settings menu entries.
const (
	settingDifficulty = iota
	settingVolume
	settingBack
	settingItems
)

// State holds everything one session remembers between frames.
type State struct {
	Input         input.Input
	GameState     GameState
	prevGameState GameState
	Running       bool

	Difficulty config.Difficulty
	Volume     config.Volume
	titleIndex int
	settingIdx int

	// Keyboard aiming moves a reticle; mouse aiming follows the pointer.
	reticle      physics.Vec
	showReticle  bool
	keyAiming    bool
	mouseAiming  bool
	finalScore   int
	newHighScore bool

	delta         time.Duration
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool
}

// NewState creates a session state on the title screen.
func NewState(d config.Difficulty, v config.Volume) *State {
	s := &State{
		GameState:     GameStateTitle,
		prevGameState: GameStateTitle,
		Running:       true,
		Difficulty:    d,
		Volume:        v,
	}
	s.resetAim()
	return s
}

// resetAim drops any aim in progress and puts the reticle above the lane.
func (s *State) resetAim() {
	s.keyAiming = false
	s.mouseAiming = false
	s.showReticle = false
	s.reticle = physics.Vec{X: config.ScreenWidth / 2, Y: config.ScreenHeight/2 - reticleStartHeight}
}
