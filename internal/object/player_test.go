package object

import (
	"math"
	"testing"
	"time"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type spawnRecorder struct {
	spawned []Entity
}

func (s *spawnRecorder) Spawn(e Entity) {
	s.spawned = append(s.spawned, e)
}

func testScreen() Screen {
	return NewScreen(config.ScreenWidth, config.ScreenHeight)
}

func testCtx(now time.Time) UpdateContext {
	return UpdateContext{
		TimeScale: 1,
		Now:       now,
		Screen:    testScreen(),
		Spawner:   &spawnRecorder{},
		Target:    physics.Vec{X: 400, Y: 300},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(testScreen())

	if p.Health != config.MaxHealth || p.DodgeCharges != config.MaxDodgeCharges {
		t.Errorf("health %d charges %d, want %d %d", p.Health, p.DodgeCharges, config.MaxHealth, config.MaxDodgeCharges)
	}
	if c := p.Center(); c != (physics.Vec{X: 400, Y: 300}) {
		t.Errorf("Center() = %+v, want (400, 300)", c)
	}
	lo, hi := p.OffsetBounds()
	if lo != -225 || hi != 225 {
		t.Errorf("OffsetBounds() = %f, %f, want -225, 225", lo, hi)
	}
	if p.AimAngle != -90 {
		t.Errorf("AimAngle = %f, want -90", p.AimAngle)
	}
}

func TestPlayerMoveUp(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Update(testCtx(t0), Controls{MoveUp: true})

	if !approx(p.Velocity, -0.54) {
		t.Errorf("Velocity = %f, want -0.54", p.Velocity)
	}
	if !approx(p.Offset, -0.5994) {
		t.Errorf("Offset = %f, want -0.5994", p.Offset)
	}
}

func TestPlayerUpWinsOverDown(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Update(testCtx(t0), Controls{MoveUp: true, MoveDown: true})

	if p.Velocity >= 0 {
		t.Errorf("Velocity = %f, want negative", p.Velocity)
	}
}

func TestPlayerAimingSuppressesMovement(t *testing.T) {
	p := NewPlayer(testScreen())
	p.BeginAim(physics.Vec{X: 600, Y: 300})
	p.Update(testCtx(t0), Controls{MoveDown: true})

	if p.Velocity != 0 || p.Offset != 0 {
		t.Errorf("velocity %f offset %f, want 0 0", p.Velocity, p.Offset)
	}
	if !approx(p.AimAngle, 0) {
		t.Errorf("AimAngle = %f, want 0", p.AimAngle)
	}
}

func TestPlayerAimingDragsOffset(t *testing.T) {
	p := NewPlayer(testScreen())
	p.BeginAim(physics.Vec{X: 600, Y: 300})
	p.Velocity = 10
	p.Update(testCtx(t0), Controls{})

	// 10 * 0.2 then the centering pull
	want := 2.0 - 2.0*config.CenterPull
	if !approx(p.Offset, want) {
		t.Errorf("Offset = %f, want %f", p.Offset, want)
	}
}

func TestPlayerOffsetClamped(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Velocity = 1e6
	p.Update(testCtx(t0), Controls{})

	if _, hi := p.OffsetBounds(); p.Offset != hi {
		t.Errorf("Offset = %f, want %f", p.Offset, hi)
	}

	p.Velocity = -1e6
	p.Update(testCtx(t0), Controls{})
	if lo, _ := p.OffsetBounds(); p.Offset != lo {
		t.Errorf("Offset = %f, want %f", p.Offset, lo)
	}
}

func TestPlayerDodge(t *testing.T) {
	p := NewPlayer(testScreen())

	if !p.Dodge(t0, -1) {
		t.Fatal("first dodge rejected")
	}
	if p.DodgeCharges != 1 || !p.Invulnerable || p.Velocity != -config.DodgeStep {
		t.Errorf("after dodge: charges %d invulnerable %v velocity %f", p.DodgeCharges, p.Invulnerable, p.Velocity)
	}

	if p.Dodge(t0.Add(100*time.Millisecond), 1) {
		t.Error("dodge within ready delay accepted")
	}
	if p.DodgeCharges != 1 {
		t.Errorf("charges = %d, want 1", p.DodgeCharges)
	}

	at := t0.Add(250 * time.Millisecond)
	if !p.Dodge(at, 1) {
		t.Fatal("second dodge rejected")
	}
	p.Invulnerable = false
	vel, last := p.Velocity, p.lastDodge
	if p.Dodge(at.Add(time.Second), 1) {
		t.Error("dodge with empty gauge accepted")
	}
	if p.DodgeCharges != 0 {
		t.Errorf("charges = %d, want 0", p.DodgeCharges)
	}
	if p.Velocity != vel || !p.lastDodge.Equal(last) || p.Invulnerable {
		t.Errorf("rejected dodge changed state: velocity %f (was %f), lastDodge %v (was %v), invulnerable %v",
			p.Velocity, vel, p.lastDodge, last, p.Invulnerable)
	}
}

func TestPlayerDodgeRechargesFully(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Dodge(t0, 1)
	p.Dodge(t0.Add(250*time.Millisecond), 1)

	last := t0.Add(250 * time.Millisecond)
	p.RestoreDodge(last.Add(config.DodgeRechargeCooldown))
	if p.DodgeCharges != 0 {
		t.Errorf("charges at cooldown boundary = %d, want 0", p.DodgeCharges)
	}
	p.RestoreDodge(last.Add(config.DodgeRechargeCooldown + time.Millisecond))
	if p.DodgeCharges != config.MaxDodgeCharges {
		t.Errorf("charges = %d, want %d", p.DodgeCharges, config.MaxDodgeCharges)
	}
}

func TestPlayerInvulnerabilityExpires(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Dodge(t0, 1)

	p.Update(testCtx(t0.Add(config.InvulnerabilityDuration)), Controls{})
	if !p.Invulnerable {
		t.Error("invulnerability cleared at exactly the duration")
	}
	p.Update(testCtx(t0.Add(config.InvulnerabilityDuration+time.Millisecond)), Controls{})
	if p.Invulnerable {
		t.Error("invulnerability still set after the duration")
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	p := NewPlayer(testScreen())

	if died := p.TakeDamage(10); died || p.Health != 90 {
		t.Errorf("TakeDamage(10) = %v, health %d; want false, 90", died, p.Health)
	}

	p.Invulnerable = true
	p.TakeDamage(10)
	if p.Health != 90 {
		t.Errorf("health while invulnerable = %d, want 90", p.Health)
	}
	p.Invulnerable = false

	p.Health = 5
	if died := p.TakeDamage(10); !died || p.Health != 0 {
		t.Errorf("lethal TakeDamage = %v, health %d; want true, 0", died, p.Health)
	}
	if died := p.TakeDamage(10); died || p.Health != 0 {
		t.Errorf("TakeDamage on dead player = %v, health %d; want false, 0", died, p.Health)
	}
}

func TestPlayerAimRelease(t *testing.T) {
	p := NewPlayer(testScreen())

	if _, ok := p.ReleaseAim(physics.Vec{X: 500, Y: 300}); ok {
		t.Error("ReleaseAim without BeginAim reported ok")
	}

	p.BeginAim(physics.Vec{X: 400, Y: 100})
	if p.DragOrigin == nil || *p.DragOrigin != (physics.Vec{X: 400, Y: 100}) {
		t.Errorf("DragOrigin = %v, want (400, 100)", p.DragOrigin)
	}
	angle, ok := p.ReleaseAim(physics.Vec{X: 500, Y: 300})
	if !ok || !approx(angle, 0) {
		t.Errorf("ReleaseAim = %f, %v; want 0, true", angle, ok)
	}
	if p.Aiming || p.DragOrigin != nil {
		t.Error("aim state not cleared after release")
	}
}

func TestPlayerReset(t *testing.T) {
	p := NewPlayer(testScreen())
	p.Dodge(t0, 1)
	p.TakeDamage(0)
	p.Invulnerable = false
	p.TakeDamage(50)
	p.BeginAim(physics.Vec{})
	p.Offset = 100

	p.Reset()
	if p.Health != p.MaxHealth || p.DodgeCharges != p.MaxDodgeCharges || p.Offset != 0 ||
		p.Velocity != 0 || p.Aiming || p.Invulnerable {
		t.Errorf("Reset left state behind: %+v", p)
	}
}
