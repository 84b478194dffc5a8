package object

import (
	"time"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// Controls are the held-key movement intents sampled this frame.
type Controls struct {
	MoveUp     bool
	MoveDown   bool
	DodgeLeft  bool
	DodgeRight bool
}

// Player is the avatar confined to the vertical lane at the screen center.
// Its position is an offset from the lane center, driven by a damped velocity.
type Player struct {
	Health          int
	MaxHealth       int
	DodgeCharges    int
	MaxDodgeCharges int

	DodgeReadyDelay         time.Duration // Minimum spacing between dodges
	DodgeRechargeCooldown   time.Duration // Quiet time before the gauge refills
	InvulnerabilityDuration time.Duration

	Invulnerable bool
	Offset       float64 // Vertical offset from the lane center
	Velocity     float64 // Vertical velocity

	Aiming     bool
	AimAngle   float64      // Degrees, toward the last known pointer
	DragOrigin *physics.Vec // Where the current aim drag began

	laneX, baseY   float64
	width, height  float64
	minOff, maxOff float64

	lastDodge         time.Time
	invulnerableSince time.Time
	pointer           physics.Vec
	hasPointer        bool
}

// NewPlayer creates a player centered in the lane of the given screen.
func NewPlayer(screen Screen) *Player {
	p := &Player{
		MaxHealth:               config.MaxHealth,
		MaxDodgeCharges:         config.MaxDodgeCharges,
		DodgeReadyDelay:         config.DodgeReadyDelay,
		DodgeRechargeCooldown:   config.DodgeRechargeCooldown,
		InvulnerabilityDuration: config.InvulnerabilityDuration,
		laneX:                   float64(screen.CenterX),
		baseY:                   float64(screen.CenterY),
		width:                   config.PlayerWidth,
		height:                  config.PlayerHeight,
	}
	p.minOff = -p.baseY + p.height/2 + config.MovementPadding
	p.maxOff = float64(screen.Height) - p.baseY - p.height/2 - config.MovementPadding
	p.Reset()
	return p
}

// Reset restores the player for a new round.
func (p *Player) Reset() {
	p.Health = p.MaxHealth
	p.DodgeCharges = p.MaxDodgeCharges
	p.Invulnerable = false
	p.Offset = 0
	p.Velocity = 0
	p.AimAngle = config.InitialAimAngle
	p.lastDodge = time.Time{}
	p.invulnerableSince = time.Time{}
	p.CancelAim()
}

// OffsetBounds returns the range the offset is clamped to.
func (p *Player) OffsetBounds() (lo, hi float64) {
	return p.minOff, p.maxOff
}

// Center returns the player's center in screen coordinates.
func (p *Player) Center() physics.Vec {
	return physics.Vec{X: p.laneX, Y: p.baseY + p.Offset}
}

// Bounds returns the player's bounding box.
func (p *Player) Bounds() physics.Box {
	return physics.BoxAt(p.Center(), p.width, p.height)
}

// IsDead reports whether health has reached zero.
func (p *Player) IsDead() bool {
	return p.Health <= 0
}

// Update handles movement, dodging, gauge recharge, aim tracking and
// invulnerability expiry for one frame.
func (p *Player) Update(ctx UpdateContext, c Controls) {
	if !p.Aiming {
		if c.MoveUp {
			p.Velocity -= config.MoveSpeed
		} else if c.MoveDown {
			p.Velocity += config.MoveSpeed
		}
	}

	switch {
	case c.DodgeLeft:
		p.Dodge(ctx.Now, -1)
	case c.DodgeRight:
		p.Dodge(ctx.Now, 1)
	}
	p.RestoreDodge(ctx.Now)

	drag := 1.0
	if p.Aiming {
		drag = config.AimDragFactor
	}
	p.Offset += p.Velocity * drag * ctx.TimeScale
	p.Velocity *= config.VelocityDamping
	p.Offset += -p.Offset * config.CenterPull * ctx.TimeScale
	p.clampOffset()

	if p.hasPointer {
		p.AimAngle = physics.AngleDeg(p.Center(), p.pointer)
	}

	if p.Invulnerable && ctx.Now.Sub(p.invulnerableSince) > p.InvulnerabilityDuration {
		p.Invulnerable = false
	}
}

// Dodge applies a step impulse in dir (-1 up, +1 down). It is ignored when the
// gauge is empty or the previous dodge was less than DodgeReadyDelay ago.
// Returns true if the dodge happened.
func (p *Player) Dodge(now time.Time, dir int) bool {
	if dir == 0 || p.DodgeCharges <= 0 {
		return false
	}
	if !p.lastDodge.IsZero() && now.Sub(p.lastDodge) < p.DodgeReadyDelay {
		return false
	}

	p.Velocity += float64(dir) * config.DodgeStep
	p.clampOffset()
	p.DodgeCharges--
	p.lastDodge = now
	p.Invulnerable = true
	p.invulnerableSince = now
	return true
}

// RestoreDodge refills the whole gauge once DodgeRechargeCooldown has passed
// since the last dodge.
func (p *Player) RestoreDodge(now time.Time) {
	if p.DodgeCharges < p.MaxDodgeCharges && now.Sub(p.lastDodge) > p.DodgeRechargeCooldown {
		p.DodgeCharges = p.MaxDodgeCharges
	}
}

// TakeDamage subtracts amount from health unless the player is invulnerable or
// already dead. Returns true if this hit brought health to zero.
func (p *Player) TakeDamage(amount int) (died bool) {
	if p.Invulnerable || p.IsDead() || amount <= 0 {
		return false
	}
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		return true
	}
	return false
}

// Nudge adds dv to the vertical velocity.
func (p *Player) Nudge(dv float64) {
	p.Velocity += dv
}

// UpdatePointer records the live pointer position the aim angle tracks.
func (p *Player) UpdatePointer(at physics.Vec) {
	p.pointer = at
	p.hasPointer = true
}

// BeginAim starts a drag at the pointer position.
func (p *Player) BeginAim(at physics.Vec) {
	p.UpdatePointer(at)
	p.Aiming = true
	origin := at
	p.DragOrigin = &origin
}

// ReleaseAim ends the drag and returns the launch angle toward the release point.
// ok is false if no aim was in progress.
func (p *Player) ReleaseAim(at physics.Vec) (angle float64, ok bool) {
	if !p.Aiming {
		return 0, false
	}
	p.UpdatePointer(at)
	angle = physics.AngleDeg(p.Center(), at)
	p.AimAngle = angle
	p.CancelAim()
	return angle, true
}

// CancelAim clears aim state without launching.
func (p *Player) CancelAim() {
	p.Aiming = false
	p.DragOrigin = nil
}

func (p *Player) clampOffset() {
	p.Offset = physics.Clamp(p.Offset, p.minOff, p.maxOff)
}
