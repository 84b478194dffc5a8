package object

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Bullet is an enemy shot flying in a straight line.
type Bullet struct {
	Pos       physics.Vec // Center
	Vel       physics.Vec // Fixed at spawn
	destroyed bool
}

// NewBullet creates a bullet at origin aimed at target.
// A zero-length direction yields a stationary bullet.
func NewBullet(origin, target physics.Vec) *Bullet {
	return &Bullet{
		Pos: origin,
		Vel: target.Sub(origin).Normalize().Scale(config.BulletSpeed),
	}
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Bounds returns the bullet's bounding box.
func (b *Bullet) Bounds() physics.Box {
	return physics.BoxAt(b.Pos, config.BulletSize, config.BulletSize)
}

// Update moves the bullet and removes it once it has left the screen.
func (b *Bullet) Update(ctx UpdateContext) bool {
	b.Pos = b.Pos.Add(b.Vel.Scale(ctx.TimeScale))
	if b.Bounds().Outside(ctx.Screen.Bounds()) {
		b.destroyed = true
	}
	return b.destroyed
}
