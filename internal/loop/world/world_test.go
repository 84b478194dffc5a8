package world

import (
	"io"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/object"
	"github.com/SpinellyA/freefall-io/internal/physics"
	"github.com/SpinellyA/freefall-io/internal/score"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	w     *World
	clk   *clock.Manual
	store *score.MemoryStore
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	logger := log.New(io.Discard)
	store := &score.MemoryStore{}
	clk := clock.NewManual(t0)
	opts := Options{
		Clock:  clk,
		Rand:   rand.New(rand.NewSource(1)),
		Board:  score.NewBoard(store, logger),
		Logger: logger,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return &harness{w: New(opts), clk: clk, store: store}
}

// step advances the clock by one target frame, so the frame ratio is exactly 1.
func (h *harness) step(in Intents) {
	h.clk.Advance(config.TargetFrameTime)
	h.w.Step(in)
}

func (h *harness) holdSpawner() {
	h.w.spawner.Interval = time.Hour
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func enemyCenteredAt(c physics.Vec, now time.Time) *object.Enemy {
	half := config.EnemySize / 2.0
	return object.NewEnemy(physics.Vec{X: c.X - half, Y: c.Y - half}, now)
}

func TestNewWorldDefaults(t *testing.T) {
	w := New(Options{Logger: log.New(io.Discard)})
	s := w.Snapshot()

	if s.Difficulty != "Normal" {
		t.Errorf("Difficulty = %q, want Normal", s.Difficulty)
	}
	if s.Player.Health != config.MaxHealth || s.Player.DodgeCharges != config.MaxDodgeCharges {
		t.Errorf("player = %+v, want full health and charges", s.Player)
	}
	if s.RoundOver || len(s.Enemies) != 0 || len(s.Bullets) != 0 {
		t.Errorf("fresh world not empty: %+v", s)
	}
}

func TestBulletFiredThisFrameHitsNextFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	center := h.w.player.Center()

	// Cooldown already elapsed, so the enemy fires on its first update.
	h.w.enemies = append(h.w.enemies, enemyCenteredAt(center, t0.Add(-3*time.Second)))

	h.step(Intents{})
	if len(h.w.bullets) != 1 {
		t.Fatalf("bullets = %d, want 1", len(h.w.bullets))
	}
	if h.w.player.Health != config.MaxHealth {
		t.Fatalf("health = %d after firing frame, want %d", h.w.player.Health, config.MaxHealth)
	}

	h.step(Intents{})
	if h.w.player.Health != config.MaxHealth-config.BulletDamage {
		t.Errorf("health = %d, want %d", h.w.player.Health, config.MaxHealth-config.BulletDamage)
	}
	if len(h.w.bullets) != 0 {
		t.Errorf("bullets = %d after hit, want 0", len(h.w.bullets))
	}
	if got := countEvents(h.w.DrainEvents(), EventPlayerHit); got != 1 {
		t.Errorf("PlayerHit events = %d, want 1", got)
	}
}

func TestLethalHitCommitsScore(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	_ = h.store.Save(3)
	h.w.board = score.NewBoard(h.store, log.New(io.Discard))

	h.w.board.Add(5)
	h.w.player.Health = 10
	center := h.w.player.Center()
	h.w.bullets = append(h.w.bullets, object.NewBullet(center, center))

	h.step(Intents{})

	if h.w.player.Health != 0 {
		t.Errorf("health = %d, want 0", h.w.player.Health)
	}
	if !h.w.RoundOver() {
		t.Fatal("round not over after lethal hit")
	}
	if h.w.board.Score() != 0 || h.w.board.High() != 5 {
		t.Errorf("score %d high %d, want 0 5", h.w.board.Score(), h.w.board.High())
	}
	if stored, _ := h.store.Load(); stored != 5 {
		t.Errorf("stored high = %d, want 5", stored)
	}

	events := h.w.DrainEvents()
	if countEvents(events, EventPlayerDied) != 1 || countEvents(events, EventHighScore) != 1 {
		t.Errorf("events = %v, want one PlayerDied and one HighScore", events)
	}
	for _, e := range events {
		if e.Type == EventPlayerDied && e.Score != 5 {
			t.Errorf("PlayerDied score = %d, want 5", e.Score)
		}
	}
}

func TestLethalHitBelowHighScoreDoesNotSave(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	_ = h.store.Save(50)
	h.w.board = score.NewBoard(h.store, log.New(io.Discard))

	h.w.board.Add(5)
	h.w.player.Health = 10
	center := h.w.player.Center()
	h.w.bullets = append(h.w.bullets, object.NewBullet(center, center))
	h.step(Intents{})

	if stored, _ := h.store.Load(); stored != 50 {
		t.Errorf("stored high = %d, want 50", stored)
	}
	if got := countEvents(h.w.DrainEvents(), EventHighScore); got != 0 {
		t.Errorf("HighScore events = %d, want 0", got)
	}
}

func TestRoundOverFreezesUntilNewRound(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.w.player.Health = 10
	center := h.w.player.Center()
	h.w.bullets = append(h.w.bullets, object.NewBullet(center, center))
	h.step(Intents{})

	h.w.grenades = append(h.w.grenades, object.NewGrenade(physics.Vec{X: 100, Y: 100}, 0, config.GrenadePower))
	before := h.w.grenades[0].Pos
	h.step(Intents{MoveUp: true})
	if h.w.grenades[0].Pos != before {
		t.Error("world advanced during round over")
	}

	h.w.NewRound()
	if h.w.RoundOver() {
		t.Error("RoundOver() = true after NewRound")
	}
	s := h.w.Snapshot()
	if s.Player.Health != config.MaxHealth || len(s.Grenades) != 0 || len(s.Bullets) != 0 {
		t.Errorf("NewRound left state behind: %+v", s)
	}
	h.step(Intents{})
	if h.w.player.Health != config.MaxHealth {
		t.Errorf("health = %d, want %d", h.w.player.Health, config.MaxHealth)
	}
}

func TestGrenadeKillsOverlappingEnemiesScoresOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()

	pos := physics.Vec{X: 200, Y: 300}
	h.w.grenades = append(h.w.grenades, &object.Grenade{Pos: pos})
	h.w.enemies = append(h.w.enemies,
		enemyCenteredAt(pos, t0),
		enemyCenteredAt(pos.Add(physics.Vec{X: 10, Y: 10}), t0),
	)

	h.step(Intents{})

	if len(h.w.enemies) != 0 {
		t.Errorf("enemies = %d, want 0", len(h.w.enemies))
	}
	if len(h.w.grenades) != 0 {
		t.Errorf("grenades = %d, want 0", len(h.w.grenades))
	}
	if got := h.w.board.Score(); got != config.ScorePerGrenadeHit {
		t.Errorf("score = %d, want %d", got, config.ScorePerGrenadeHit)
	}
	if len(h.w.blasts) != 1 {
		t.Errorf("explosions = %d, want 1", len(h.w.blasts))
	}
	if got := countEvents(h.w.DrainEvents(), EventEnemyKilled); got != 2 {
		t.Errorf("EnemyKilled events = %d, want 2", got)
	}
}

func TestGrenadeMissLeavesEnemy(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()

	h.w.grenades = append(h.w.grenades, &object.Grenade{Pos: physics.Vec{X: 200, Y: 300}})
	h.w.enemies = append(h.w.enemies, enemyCenteredAt(physics.Vec{X: 300, Y: 300}, t0))

	h.step(Intents{})
	if len(h.w.enemies) != 1 || len(h.w.grenades) != 1 || h.w.board.Score() != 0 {
		t.Errorf("enemies %d grenades %d score %d, want 1 1 0",
			len(h.w.enemies), len(h.w.grenades), h.w.board.Score())
	}
}

func TestGrenadeLandingScoresNothing(t *testing.T) {
	for _, disabled := range []bool{false, true} {
		h := newHarness(t, func(o *Options) { o.DisableExplosions = disabled })
		h.holdSpawner()
		h.w.grenades = append(h.w.grenades, &object.Grenade{
			Pos: physics.Vec{X: 200, Y: 600},
			Vel: physics.Vec{Y: 10},
		})

		h.step(Intents{})
		if len(h.w.grenades) != 0 || h.w.board.Score() != 0 {
			t.Errorf("disabled=%v: grenades %d score %d, want 0 0", disabled, len(h.w.grenades), h.w.board.Score())
		}
		want := 1
		if disabled {
			want = 0
		}
		if len(h.w.blasts) != want {
			t.Errorf("disabled=%v: explosions = %d, want %d", disabled, len(h.w.blasts), want)
		}
	}
}

func TestExplosionKillsAreNotScored(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()

	c := physics.Vec{X: 150, Y: 300}
	x := object.NewExplosion(c)
	x.Frame = x.Lifetime / 2
	h.w.blasts = append(h.w.blasts, x)
	h.w.enemies = append(h.w.enemies, enemyCenteredAt(c.Add(physics.Vec{X: 20}), t0))

	h.step(Intents{})
	if len(h.w.enemies) != 0 {
		t.Errorf("enemies = %d, want 0", len(h.w.enemies))
	}
	if h.w.board.Score() != 0 {
		t.Errorf("score = %d, want 0", h.w.board.Score())
	}
	if got := countEvents(h.w.DrainEvents(), EventEnemyKilled); got != 1 {
		t.Errorf("EnemyKilled events = %d, want 1", got)
	}
}

func TestExplosionActsOnItsLastFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()

	c := physics.Vec{X: 150, Y: 300}
	x := object.NewExplosion(c)
	x.Frame = x.Lifetime - 1
	h.w.blasts = append(h.w.blasts, x)
	e := enemyCenteredAt(c.Add(physics.Vec{X: config.ExplosionMaxRadius - 1}), t0)
	e.Speed = 0
	h.w.enemies = append(h.w.enemies, e)

	h.step(Intents{})
	if len(h.w.enemies) != 0 {
		t.Errorf("enemies = %d, want the one just inside full radius killed", len(h.w.enemies))
	}
	if got := countEvents(h.w.DrainEvents(), EventEnemyKilled); got != 1 {
		t.Errorf("EnemyKilled events = %d, want 1", got)
	}
	if len(h.w.blasts) != 0 {
		t.Errorf("explosions = %d after the last frame, want 0", len(h.w.blasts))
	}
}

func TestExplosionExpires(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.w.blasts = append(h.w.blasts, object.NewExplosion(physics.Vec{X: 100, Y: 100}))

	for i := 0; i < int(config.ExplosionLifetime); i++ {
		h.step(Intents{})
	}
	if len(h.w.blasts) != 0 {
		t.Errorf("explosions = %d after lifetime, want 0", len(h.w.blasts))
	}
}

func TestBulletOffscreenRemoved(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.w.bullets = append(h.w.bullets, &object.Bullet{Pos: physics.Vec{X: 100, Y: -3}, Vel: physics.Vec{Y: -3}})

	h.step(Intents{})
	if len(h.w.bullets) != 0 {
		t.Errorf("bullets = %d, want 0", len(h.w.bullets))
	}
}

func TestDodgeBlocksBulletDamage(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()

	h.step(Intents{DodgeLeft: true})
	if got := countEvents(h.w.DrainEvents(), EventPlayerDodged); got != 1 {
		t.Fatalf("PlayerDodged events = %d, want 1", got)
	}
	if !h.w.player.Invulnerable {
		t.Fatal("player not invulnerable after dodge")
	}

	center := h.w.player.Center()
	h.w.bullets = append(h.w.bullets, object.NewBullet(center, center))
	h.step(Intents{})

	if h.w.player.Health != config.MaxHealth {
		t.Errorf("health = %d, want %d", h.w.player.Health, config.MaxHealth)
	}
	if len(h.w.bullets) != 0 {
		t.Errorf("bullets = %d, want spent bullet removed", len(h.w.bullets))
	}
}

func TestAimReleaseThrowsGrenade(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	target := physics.Vec{X: 600, Y: 300}

	h.step(Intents{Pointer: []PointerEvent{{Kind: AimStarted, Pos: target}}})
	s := h.w.Snapshot()
	if !s.Aiming || len(s.Trajectory) != 30 {
		t.Fatalf("aiming %v trajectory %d, want true 30", s.Aiming, len(s.Trajectory))
	}
	if math.Abs(s.TimeScale-config.AimTimeScale) > 1e-9 {
		t.Errorf("TimeScale = %f, want %f", s.TimeScale, config.AimTimeScale)
	}
	if s.DragOrigin == nil || *s.DragOrigin != target {
		t.Errorf("DragOrigin = %v, want %+v", s.DragOrigin, target)
	}

	h.step(Intents{Pointer: []PointerEvent{{Kind: AimReleased, Pos: target}}})
	if len(h.w.grenades) != 1 {
		t.Fatalf("grenades = %d, want 1", len(h.w.grenades))
	}
	g := h.w.grenades[0]
	if math.Abs(g.Vel.X-config.GrenadePower) > 1e-9 || math.Abs(g.Vel.Y) > 1e-9 {
		t.Errorf("grenade velocity = %+v, want (%f, 0)", g.Vel, config.GrenadePower)
	}
	if got := countEvents(h.w.DrainEvents(), EventGrenadeThrown); got != 1 {
		t.Errorf("GrenadeThrown events = %d, want 1", got)
	}
	if s := h.w.Snapshot(); s.Aiming || len(s.Trajectory) != 0 {
		t.Errorf("aim state after release: aiming %v trajectory %d", s.Aiming, len(s.Trajectory))
	}
}

func TestReleaseWithoutAimIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.step(Intents{Pointer: []PointerEvent{{Kind: AimReleased, Pos: physics.Vec{X: 10, Y: 10}}}})

	if len(h.w.grenades) != 0 {
		t.Errorf("grenades = %d, want 0", len(h.w.grenades))
	}
}

func TestTimeScale(t *testing.T) {
	hard := config.Difficulties[2]
	h := newHarness(t, func(o *Options) { o.Difficulty = hard })
	h.holdSpawner()

	h.w.Step(Intents{})
	if got := h.w.Snapshot().TimeScale; math.Abs(got-hard.SpeedMultiplier) > 1e-9 {
		t.Errorf("first frame TimeScale = %f, want %f", got, hard.SpeedMultiplier)
	}

	h.clk.Advance(2 * config.TargetFrameTime)
	h.w.Step(Intents{})
	if got := h.w.Snapshot().TimeScale; math.Abs(got-2*hard.SpeedMultiplier) > 1e-6 {
		t.Errorf("double frame TimeScale = %f, want %f", got, 2*hard.SpeedMultiplier)
	}

	h.clk.Advance(time.Second)
	h.w.Step(Intents{})
	if got := h.w.Snapshot().TimeScale; math.Abs(got-config.MaxFrameRatio*hard.SpeedMultiplier) > 1e-9 {
		t.Errorf("stalled frame TimeScale = %f, want %f", got, config.MaxFrameRatio*hard.SpeedMultiplier)
	}
}

func TestSpawnerAddsEnemyBelowScreen(t *testing.T) {
	h := newHarness(t, nil)

	h.clk.Advance(config.EnemySpawnInterval + time.Millisecond)
	h.w.Step(Intents{})

	if len(h.w.enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(h.w.enemies))
	}
	if y := h.w.enemies[0].Pos.Y; y < config.ScreenHeight+config.EnemySpawnDepthMin {
		t.Errorf("enemy y = %f, want below the screen", y)
	}
}

func TestSetDifficulty(t *testing.T) {
	h := newHarness(t, nil)
	easy := config.Difficulties[0]
	h.w.SetDifficulty(easy)

	if h.w.Difficulty().Name != "Easy" {
		t.Errorf("Difficulty() = %s, want Easy", h.w.Difficulty().Name)
	}
	if h.w.spawner.Interval != 2*config.EnemySpawnInterval {
		t.Errorf("spawn interval = %v, want %v", h.w.spawner.Interval, 2*config.EnemySpawnInterval)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.w.bullets = append(h.w.bullets, &object.Bullet{Pos: physics.Vec{X: 100, Y: 100}})

	s := h.w.Snapshot()
	s.Bullets[0].X = -999
	if h.w.bullets[0].Pos.X != 100 {
		t.Error("mutating the snapshot changed the world")
	}
}

func TestDrainEventsClears(t *testing.T) {
	h := newHarness(t, nil)
	h.holdSpawner()
	h.step(Intents{DodgeRight: true})

	if len(h.w.DrainEvents()) == 0 {
		t.Fatal("no events after dodge")
	}
	if got := h.w.DrainEvents(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventPlayerDied.String(); got != "player_died" {
		t.Errorf("String() = %q, want player_died", got)
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
