package object

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Explosion is an expanding blast left by a grenade impact.
// Each enemy is killed and pushed at most once per explosion.
type Explosion struct {
	Center    physics.Vec
	MaxRadius float64
	Lifetime  float64 // Frames at time scale 1
	Frame     float64

	killed    map[*Enemy]struct{}
	pushed    map[*Enemy]struct{}
	destroyed bool
}

// NewExplosion creates an explosion at center.
func NewExplosion(center physics.Vec) *Explosion {
	return &Explosion{
		Center:    center,
		MaxRadius: config.ExplosionMaxRadius,
		Lifetime:  config.ExplosionLifetime,
		killed:    make(map[*Enemy]struct{}),
		pushed:    make(map[*Enemy]struct{}),
	}
}

// Radius is the current blast radius.
func (x *Explosion) Radius() float64 {
	return x.MaxRadius * x.Frame / x.Lifetime
}

// MarkDestroyed marks the explosion for removal.
func (x *Explosion) MarkDestroyed() {
	x.destroyed = true
}

// IsDestroyed returns true if the explosion is marked for destruction.
func (x *Explosion) IsDestroyed() bool {
	return x.destroyed
}

// Bounds returns the square enclosing the current blast.
func (x *Explosion) Bounds() physics.Box {
	r := x.Radius()
	return physics.BoxAt(x.Center, 2*r, 2*r)
}

// Update grows the blast. It is removed once its lifetime has run out.
func (x *Explosion) Update(ctx UpdateContext) bool {
	x.Frame += ctx.TimeScale
	if x.Frame >= x.Lifetime {
		x.destroyed = true
	}
	return x.destroyed
}

// Affect kills and pushes e if it is inside the blast. Returns true if this call killed it.
func (x *Explosion) Affect(e *Enemy) (killed bool) {
	center := e.Center()
	if r := x.Radius(); physics.DistanceSquared(x.Center, center) >= r*r {
		return false
	}
	if _, done := x.pushed[e]; !done {
		x.pushed[e] = struct{}{}
		e.Push(center.Sub(x.Center).Normalize().Scale(config.ExplosionPush))
	}
	if _, done := x.killed[e]; done || e.IsDestroyed() {
		return false
	}
	x.killed[e] = struct{}{}
	e.MarkDestroyed()
	return true
}

// Nudge pushes the player vertically away from the blast while inside it.
func (x *Explosion) Nudge(p *Player) {
	center := p.Center()
	if r := x.Radius(); physics.DistanceSquared(x.Center, center) >= r*r {
		return
	}
	away := center.Sub(x.Center).Normalize()
	p.Nudge(away.Y * config.ExplosionNudge)
}
