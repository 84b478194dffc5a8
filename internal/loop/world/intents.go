package world

import (
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerMoved PointerKind = iota
	AimStarted
	AimReleased
)

// PointerEvent is a pointer action in logical screen coordinates.
type PointerEvent struct {
	Kind PointerKind
	Pos  physics.Vec
}

// Intents are the player's commands for one frame. Held keys are sampled once;
// pointer events are applied in order before anything moves.
type Intents struct {
	MoveUp     bool
	MoveDown   bool
	DodgeLeft  bool
	DodgeRight bool
	Quit       bool

	Pointer []PointerEvent
}

func (in Intents) controls() object.Controls {
	return object.Controls{
		MoveUp:     in.MoveUp,
		MoveDown:   in.MoveDown,
		DodgeLeft:  in.DodgeLeft,
		DodgeRight: in.DodgeRight,
	}
}
