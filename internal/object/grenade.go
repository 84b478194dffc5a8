package object

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Grenade is a player-thrown projectile on a ballistic arc.
type Grenade struct {
	Pos       physics.Vec // Center
	Vel       physics.Vec
	Landed    bool // Fell past the bottom of the screen
	destroyed bool
}

// NewGrenade launches a grenade from center at angleDeg with the given power.
func NewGrenade(center physics.Vec, angleDeg, power float64) *Grenade {
	return &Grenade{
		Pos: center,
		Vel: physics.FromAngleDeg(angleDeg, power),
	}
}

// MarkDestroyed marks the grenade for removal.
func (g *Grenade) MarkDestroyed() {
	g.destroyed = true
}

// IsDestroyed returns true if the grenade is marked for destruction.
func (g *Grenade) IsDestroyed() bool {
	return g.destroyed
}

// Bounds returns the grenade's bounding box.
func (g *Grenade) Bounds() physics.Box {
	return physics.BoxAt(g.Pos, config.GrenadeSize, config.GrenadeSize)
}

// Update applies gravity and moves the grenade. It is removed once its top edge
// passes the bottom of the screen.
func (g *Grenade) Update(ctx UpdateContext) bool {
	g.Vel.Y += config.Gravity * ctx.TimeScale
	g.Pos = g.Pos.Add(g.Vel.Scale(ctx.TimeScale))
	if g.Bounds().Top() > float64(ctx.Screen.Height) {
		g.Landed = true
		g.destroyed = true
	}
	return g.destroyed
}
