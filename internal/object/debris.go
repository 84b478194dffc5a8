package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
)

// debrisPool reuses fragments; kills throw off a dozen at a time.
var debrisPool = sync.Pool{
	New: func() any {
		return &Debris{}
	},
}

// Debris is a short-lived fragment thrown off by a kill or a hit.
// It is visual only and never collides with anything.
type Debris struct {
	Pos     physics.Vec
	Vel     physics.Vec
	Life    float64 // Frames remaining
	MaxLife float64
}

func newDebris(pos, vel physics.Vec, life float64) *Debris {
	d := debrisPool.Get().(*Debris)
	d.Pos = pos
	d.Vel = vel
	d.Life = life
	d.MaxLife = life
	return d
}

// Faded reports whether the fragment is in the last quarter of its life.
func (d *Debris) Faded() bool {
	return d.MaxLife > 0 && d.Life/d.MaxLife < 0.25
}

func (d *Debris) update(timeScale float64) (remove bool) {
	d.Life -= timeScale
	if d.Life <= 0 {
		return true
	}
	d.Vel = d.Vel.Scale(math.Pow(config.DebrisDrag, timeScale))
	d.Pos = d.Pos.Add(d.Vel.Scale(timeScale))
	return false
}

// DebrisField owns the live fragments of one presentation layer.
// It is not safe for concurrent use.
type DebrisField struct {
	rng    *rand.Rand
	pieces []*Debris
}

// NewDebrisField creates an empty field drawing randomness from rng.
func NewDebrisField(rng *rand.Rand) *DebrisField {
	return &DebrisField{rng: rng}
}

// Burst throws count fragments out from pos in random directions.
func (f *DebrisField) Burst(pos physics.Vec, count int) {
	for range count {
		angle := f.rng.Float64() * 360
		speed := config.DebrisSpeed * (0.5 + f.rng.Float64())
		life := config.DebrisLifetime * (0.5 + f.rng.Float64()*0.5)
		f.pieces = append(f.pieces, newDebris(pos, physics.FromAngleDeg(angle, speed), life))
	}
}

// Update advances every fragment and drops the expired ones.
func (f *DebrisField) Update(timeScale float64) {
	kept := f.pieces[:0]
	for _, d := range f.pieces {
		if d.update(timeScale) {
			debrisPool.Put(d)
			continue
		}
		kept = append(kept, d)
	}
	clear(f.pieces[len(kept):])
	f.pieces = kept
}

// Pieces returns the live fragments. The slice is only valid until the next
// Update, Burst or Clear.
func (f *DebrisField) Pieces() []*Debris {
	return f.pieces
}

// Clear drops every fragment.
func (f *DebrisField) Clear() {
	for _, d := range f.pieces {
		debrisPool.Put(d)
	}
	clear(f.pieces)
	f.pieces = f.pieces[:0]
}
