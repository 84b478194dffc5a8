package world

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// PlayerView is the renderable player state.
type PlayerView struct {
	Box             physics.Box
	Center          physics.Vec
	AimAngle        float64
	Health          int
	MaxHealth       int
	DodgeCharges    int
	MaxDodgeCharges int
	Invulnerable    bool
}

// EnemyView is the renderable state of one enemy.
type EnemyView struct {
	Box    physics.Box
	Facing float64
}

// ExplosionView is the renderable state of one blast.
type ExplosionView struct {
	Center physics.Vec
	Radius float64
}

// Snapshot is a copy of the world state for rendering. It shares no memory
// with the World.
type Snapshot struct {
	Screen     object.Screen
	Player     PlayerView
	Bullets    []physics.Box
	Grenades   []physics.Box
	Enemies    []EnemyView
	Explosions []ExplosionView

	Score     int
	HighScore int

	Aiming     bool
	AimAngle   float64
	DragOrigin *physics.Vec
	Trajectory []physics.Vec // Empty unless aiming

	RoundOver  bool
	TimeScale  float64
	Difficulty string
}

// Snapshot captures the current state.
func (w *World) Snapshot() Snapshot {
	p := w.player
	s := Snapshot{
		Screen: w.screen,
		Player: PlayerView{
			Box:             p.Bounds(),
			Center:          p.Center(),
			AimAngle:        p.AimAngle,
			Health:          p.Health,
			MaxHealth:       p.MaxHealth,
			DodgeCharges:    p.DodgeCharges,
			MaxDodgeCharges: p.MaxDodgeCharges,
			Invulnerable:    p.Invulnerable,
		},
		Bullets:    make([]physics.Box, 0, len(w.bullets)),
		Grenades:   make([]physics.Box, 0, len(w.grenades)),
		Enemies:    make([]EnemyView, 0, len(w.enemies)),
		Explosions: make([]ExplosionView, 0, len(w.blasts)),
		Score:      w.board.Score(),
		HighScore:  w.board.High(),
		Aiming:     p.Aiming,
		AimAngle:   p.AimAngle,
		RoundOver:  w.roundOver,
		TimeScale:  w.timeScale,
		Difficulty: w.difficulty.Name,
	}

	for _, b := range w.bullets {
		s.Bullets = append(s.Bullets, b.Bounds())
	}
	for _, g := range w.grenades {
		s.Grenades = append(s.Grenades, g.Bounds())
	}
	for _, e := range w.enemies {
		s.Enemies = append(s.Enemies, EnemyView{Box: e.Bounds(), Facing: e.Facing})
	}
	for _, x := range w.blasts {
		s.Explosions = append(s.Explosions, ExplosionView{Center: x.Center, Radius: x.Radius()})
	}

	if p.Aiming {
		if p.DragOrigin != nil {
			origin := *p.DragOrigin
			s.DragOrigin = &origin
		}
		s.Trajectory = object.TrajectoryPreview(p.Center(), p.AimAngle, config.GrenadePower)
	}
	return s
}
