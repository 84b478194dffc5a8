// Package world runs the frame-stepped simulation: player, enemies, bullets,
// grenades and explosions, their collisions, scoring and the round lifecycle.
//
// A World is not safe for concurrent use. Each session owns one and steps it
// from a single goroutine.
package world

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
	"github.com/SpinellyA/freefall-io/internal/score"
)

// Options configure a new World. The zero value is usable.
type Options struct {
	Difficulty        config.Difficulty // Zero value means config.DefaultDifficulty
	Clock             clock.Clock       // Defaults to the system clock
	Rand              *rand.Rand        // Enemy placement; defaults to a time-seeded source
	Board             *score.Board      // Defaults to an in-memory high score
	DisableExplosions bool              // Grenade impacts leave no blast
	Logger            *log.Logger
}

// World owns every entity of one game and steps them in a fixed order.
type World struct {
	screen       object.Screen
	clock        clock.Clock
	scale        clock.TimeScale
	difficulty   config.Difficulty
	explosionsOn bool
	rng          *rand.Rand
	board        *score.Board
	log          *log.Logger

	player   *object.Player
	spawner  *object.EnemySpawner
	bullets  []*object.Bullet
	grenades []*object.Grenade
	enemies  []*object.Enemy
	blasts   []*object.Explosion
	toSpawn  []object.Entity

	enemyGrid *physics.SpatialGrid
	events    []Event

	lastStep  time.Time
	timeScale float64
	roundOver bool
}

// New creates a world with a fresh round ready to step.
func New(opts Options) *World {
	if opts.Difficulty.Name == "" {
		opts.Difficulty = config.DefaultDifficulty
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Board == nil {
		opts.Board = score.NewBoard(&score.MemoryStore{}, opts.Logger)
	}

	screen := object.NewScreen(config.ScreenWidth, config.ScreenHeight)
	w := &World{
		screen:       screen,
		clock:        opts.Clock,
		difficulty:   opts.Difficulty,
		explosionsOn: !opts.DisableExplosions,
		rng:          opts.Rand,
		board:        opts.Board,
		log:          opts.Logger,
		player:       object.NewPlayer(screen),
		spawner:      object.NewEnemySpawner(opts.Difficulty, opts.Rand, opts.Clock.Now()),
		enemyGrid:    physics.NewSpatialGrid(float64(screen.Width), float64(screen.Height), config.CollisionGridCellSize),
		timeScale:    opts.Difficulty.SpeedMultiplier,
		scale:        timeScaleFor(opts.Difficulty),
	}
	return w
}

func timeScaleFor(d config.Difficulty) clock.TimeScale {
	return clock.TimeScale{
		Speed:         d.SpeedMultiplier,
		AimFactor:     config.AimTimeScale,
		TargetFrame:   config.TargetFrameTime,
		MaxFrameRatio: config.MaxFrameRatio,
	}
}

// Difficulty returns the active difficulty.
func (w *World) Difficulty() config.Difficulty {
	return w.difficulty
}

// SetDifficulty changes world speed and spawn pacing from the next step on.
func (w *World) SetDifficulty(d config.Difficulty) {
	w.difficulty = d
	w.scale = timeScaleFor(d)
	w.spawner = object.NewEnemySpawner(d, w.rng, w.clock.Now())
}

// RoundOver reports whether the player has died. Step does nothing until NewRound.
func (w *World) RoundOver() bool {
	return w.roundOver
}

// TimeScale returns the motion multiplier used by the last step.
func (w *World) TimeScale() float64 {
	return w.timeScale
}

// Board returns the score board.
func (w *World) Board() *score.Board {
	return w.board
}

// NewRound resets the player, clears every entity and restarts the timers.
func (w *World) NewRound() {
	w.player.Reset()
	w.bullets = w.bullets[:0]
	w.grenades = w.grenades[:0]
	w.enemies = w.enemies[:0]
	w.blasts = w.blasts[:0]
	w.toSpawn = w.toSpawn[:0]
	w.events = w.events[:0]
	w.spawner.Reset(w.clock.Now())
	w.lastStep = time.Time{}
	w.timeScale = w.difficulty.SpeedMultiplier
	w.roundOver = false
}

// Spawn queues an entity to join the world after the current step.
// Implements object.Spawner.
func (w *World) Spawn(e object.Entity) {
	w.toSpawn = append(w.toSpawn, e)
}

// FlushSpawned adds all queued entities to their collections and clears the queue.
func (w *World) FlushSpawned() {
	for _, e := range w.toSpawn {
		switch o := e.(type) {
		case *object.Bullet:
			w.bullets = append(w.bullets, o)
		case *object.Grenade:
			w.grenades = append(w.grenades, o)
		case *object.Enemy:
			w.enemies = append(w.enemies, o)
		case *object.Explosion:
			w.blasts = append(w.blasts, o)
		default:
			w.log.Warn("dropping spawn of unknown entity", "type", fmt.Sprintf("%T", e))
		}
	}
	clear(w.toSpawn)
	w.toSpawn = w.toSpawn[:0]
}

// Step advances the world by one frame.
func (w *World) Step(in Intents) {
	if w.roundOver {
		return
	}

	now := w.clock.Now()
	var delta time.Duration
	if !w.lastStep.IsZero() {
		delta = now.Sub(w.lastStep)
	}
	w.lastStep = now

	w.applyPointer(in.Pointer)

	w.timeScale = w.scale.Frame(delta, w.player.Aiming)
	ctx := object.UpdateContext{
		TimeScale: w.timeScale,
		Now:       now,
		Screen:    w.screen,
		Spawner:   w,
		Target:    w.player.Center(),
	}

	w.spawner.Update(ctx)

	w.updatePlayer(ctx, in)
	ctx.Target = w.player.Center()

	for _, b := range w.bullets {
		b.Update(ctx)
	}

	w.updateGrenades(ctx)

	for _, e := range w.enemies {
		if !e.IsDestroyed() {
			e.Update(ctx)
		}
	}

	w.resolveBullets()
	w.updateExplosions(ctx)

	w.purge()
	w.FlushSpawned()

	if w.player.IsDead() {
		w.endRound()
	}
}

func (w *World) applyPointer(events []PointerEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case PointerMoved:
			w.player.UpdatePointer(ev.Pos)
		case AimStarted:
			w.player.BeginAim(ev.Pos)
		case AimReleased:
			angle, ok := w.player.ReleaseAim(ev.Pos)
			if !ok {
				continue
			}
			center := w.player.Center()
			w.Spawn(object.NewGrenade(center, angle, config.GrenadePower))
			w.emit(Event{Type: EventGrenadeThrown, Pos: center, Health: w.player.Health})
		}
	}
}

func (w *World) updatePlayer(ctx object.UpdateContext, in Intents) {
	charges := w.player.DodgeCharges
	w.player.Update(ctx, in.controls())
	if w.player.DodgeCharges < charges {
		w.emit(Event{Type: EventPlayerDodged, Pos: w.player.Center(), Health: w.player.Health})
	}
}

func (w *World) endRound() {
	final := w.board.Score()
	newHigh := w.board.Commit()
	w.player.CancelAim()
	w.roundOver = true

	w.emit(Event{Type: EventPlayerDied, Pos: w.player.Center(), Score: final})
	if newHigh {
		w.emit(Event{Type: EventHighScore, Score: w.board.High()})
	}
	w.log.Debug("round over", "score", final, "high", w.board.High(), "new_high", newHigh)
}

// purge drops destroyed entities from every collection, keeping order.
func (w *World) purge() {
	w.bullets = compact(w.bullets)
	w.grenades = compact(w.grenades)
	w.enemies = compact(w.enemies)
	w.blasts = compact(w.blasts)
}

func compact[T object.Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept
}

