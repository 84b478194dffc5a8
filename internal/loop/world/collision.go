package world

import (
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/object"
)

// populateEnemyGrid clears and re-inserts all live enemies by box center.
func (w *World) populateEnemyGrid() {
	w.enemyGrid.Clear()
	for i, e := range w.enemies {
		if !e.IsDestroyed() {
			w.enemyGrid.Insert(e.Center(), i)
		}
	}
}

// updateGrenades moves every grenade and resolves it against enemies.
// A grenade that overlaps any live enemy kills all of them, scores once and is
// removed. Impacts, with an enemy or the ground, leave an explosion.
func (w *World) updateGrenades(ctx object.UpdateContext) {
	if len(w.grenades) == 0 {
		return
	}
	w.populateEnemyGrid()

	for _, g := range w.grenades {
		if g.IsDestroyed() {
			continue
		}
		g.Update(ctx)
		if g.Landed {
			w.detonate(g)
			continue
		}

		box := g.Bounds()
		hit := false
		w.enemyGrid.QueryAround(g.Pos, func(i int) bool {
			e := w.enemies[i]
			if e.IsDestroyed() || !box.Overlaps(e.Bounds()) {
				return false
			}
			e.MarkDestroyed()
			hit = true
			w.emit(Event{Type: EventEnemyKilled, Pos: e.Center(), Health: w.player.Health})
			return false
		})
		if hit {
			w.board.Add(config.ScorePerGrenadeHit)
			g.MarkDestroyed()
			w.detonate(g)
		}
	}
}

func (w *World) detonate(g *object.Grenade) {
	if w.explosionsOn {
		w.Spawn(object.NewExplosion(g.Pos))
	}
}

// resolveBullets removes every bullet touching the player and applies its damage.
// Damage is skipped while the player is invulnerable, but the bullet is still spent.
func (w *World) resolveBullets() {
	box := w.player.Bounds()
	for _, b := range w.bullets {
		if b.IsDestroyed() || !b.Bounds().Overlaps(box) {
			continue
		}
		b.MarkDestroyed()

		before := w.player.Health
		w.player.TakeDamage(config.BulletDamage)
		if w.player.Health < before {
			w.emit(Event{Type: EventPlayerHit, Pos: b.Pos, Health: w.player.Health})
		}
	}
}

// updateExplosions grows each blast, then kills, pushes and nudges whatever is
// inside it. A blast still acts on the frame it expires, at full size, and is
// purged afterwards. Explosion kills do not score.
func (w *World) updateExplosions(ctx object.UpdateContext) {
	if len(w.blasts) == 0 {
		return
	}
	w.populateEnemyGrid()

	for _, x := range w.blasts {
		if x.IsDestroyed() {
			continue
		}
		x.Update(ctx)
		w.enemyGrid.QueryAround(x.Center, func(i int) bool {
			e := w.enemies[i]
			if x.Affect(e) {
				w.emit(Event{Type: EventEnemyKilled, Pos: e.Center(), Health: w.player.Health})
			}
			return false
		})
		x.Nudge(w.player)
	}
}
