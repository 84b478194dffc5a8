package object

import (
	"math/rand"
	"time"

	"github.com/SpinellyA/freefall-io/internal/loop/config"
)

// EnemySpawner adds one enemy below the screen every interval of wall time.
type EnemySpawner struct {
	Interval time.Duration

	rng       *rand.Rand
	lastSpawn time.Time
}

// NewEnemySpawner creates a spawner paced for the given difficulty.
// The timer starts at now.
func NewEnemySpawner(d config.Difficulty, rng *rand.Rand, now time.Time) *EnemySpawner {
	mult := d.SpawnIntervalMultiplier
	if mult <= 0 {
		mult = 1
	}
	return &EnemySpawner{
		Interval:  time.Duration(float64(config.EnemySpawnInterval) / mult),
		rng:       rng,
		lastSpawn: now,
	}
}

// Reset restarts the spawn timer at now.
func (s *EnemySpawner) Reset(now time.Time) {
	s.lastSpawn = now
}

// Update spawns an enemy through ctx.Spawner once the interval has elapsed.
// Returns true if an enemy was spawned.
func (s *EnemySpawner) Update(ctx UpdateContext) bool {
	if ctx.Now.Sub(s.lastSpawn) < s.Interval {
		return false
	}
	s.lastSpawn = ctx.Now
	ctx.Spawner.Spawn(NewEnemyBelow(s.rng, ctx.Screen, ctx.Now))
	return true
}
