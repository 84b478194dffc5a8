// Package object holds the simulated entities: the player, bullets, grenades,
// explosions, enemies and the enemy spawner.
package object

import (
	"time"

	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Spawner allows entities to spawn new entities during update.
// Spawned entities are queued and join the world after the current frame.
type Spawner interface {
	Spawn(e Entity)
}

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	TimeScale float64     // Motion multiplier for this frame
	Now       time.Time   // Monotonic wall time, for cooldowns
	Screen    Screen      // Logical screen bounds
	Spawner   Spawner     // Sink for spawned entities
	Target    physics.Vec // Current player center
}

// Screen represents the logical screen dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a screen of the given size.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Bounds returns the screen rectangle.
func (s Screen) Bounds() physics.Box {
	return physics.Box{W: float64(s.Width), H: float64(s.Height)}
}

// Entity is a simulated, collidable game object.
type Entity interface {
	// Update advances the entity by one frame. Returns true if it should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Bounds returns the entity's bounding box.
	Bounds() physics.Box

	Destructible
}

// Destructible is implemented by entities that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal on the next purge.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}
