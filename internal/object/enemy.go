package object

import (
	"math/rand"
	"time"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Enemy rises from below the screen and shoots at the player.
type Enemy struct {
	Pos           physics.Vec // Top-left corner
	Speed         float64     // Upward drift per frame at time scale 1
	Facing        float64     // Degrees toward the player, visual only
	ShootCooldown time.Duration

	lastShot  time.Time
	destroyed bool
}

// NewEnemy creates an enemy at pos whose shot cooldown starts at now.
func NewEnemy(pos physics.Vec, now time.Time) *Enemy {
	return &Enemy{
		Pos:           pos,
		Speed:         config.EnemySpeed,
		ShootCooldown: config.EnemyShootCooldown,
		lastShot:      now,
	}
}

// NewEnemyBelow creates an enemy just below the bottom edge, on a random side of
// the lane and outside the safe zone around it.
func NewEnemyBelow(rng *rand.Rand, screen Screen, now time.Time) *Enemy {
	return NewEnemy(EnemySpawnPoint(rng, screen), now)
}

// EnemySpawnPoint picks a top-left position for a new enemy.
func EnemySpawnPoint(rng *rand.Rand, screen Screen) physics.Vec {
	var lo, hi int
	if rng.Intn(2) == 0 {
		lo = config.EnemySpawnMargin
		hi = screen.CenterX - config.EnemySafeZone
	} else {
		lo = screen.CenterX + config.EnemySafeZone
		hi = screen.Width - config.EnemySpawnMargin - config.EnemySize
	}
	depth := config.EnemySpawnDepthMin + rng.Intn(config.EnemySpawnDepthMax-config.EnemySpawnDepthMin+1)

	return physics.Vec{
		X: float64(lo + randSpan(rng, hi-lo)),
		Y: float64(screen.Height + depth),
	}
}

// randSpan returns a value in [0, n], or 0 when n is not positive.
func randSpan(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n + 1)
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// Bounds returns the enemy's bounding box.
func (e *Enemy) Bounds() physics.Box {
	return physics.Box{X: e.Pos.X, Y: e.Pos.Y, W: config.EnemySize, H: config.EnemySize}
}

// Center returns the center of the enemy's box.
func (e *Enemy) Center() physics.Vec {
	return e.Bounds().Center()
}

// Push displaces the enemy by d.
func (e *Enemy) Push(d physics.Vec) {
	e.Pos = e.Pos.Add(d)
}

// Update drifts the enemy upward, turns it toward the player and fires once
// per cooldown. It is removed after escaping above the screen.
func (e *Enemy) Update(ctx UpdateContext) bool {
	e.Pos.Y -= e.Speed * ctx.TimeScale

	center := e.Center()
	e.Facing = physics.AngleDeg(center, ctx.Target)

	if ctx.Now.Sub(e.lastShot) >= e.ShootCooldown {
		e.lastShot = ctx.Now
		if ctx.Spawner != nil {
			ctx.Spawner.Spawn(NewBullet(center, ctx.Target))
		}
	}

	if e.Bounds().Bottom() < 0 {
		e.destroyed = true
	}
	return e.destroyed
}
