package world

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"pgregory.net/rapid"

	"github.com/SpinellyA/freefall-io/internal/clock"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/physics"
	"github.com/SpinellyA/freefall-io/internal/score"
)

func genPointer() *rapid.Generator[PointerEvent] {
	return rapid.Custom(func(t *rapid.T) PointerEvent {
		return PointerEvent{
			Kind: PointerKind(rapid.IntRange(0, 2).Draw(t, "kind")),
			Pos: physics.Vec{
				X: rapid.Float64Range(0, config.ScreenWidth).Draw(t, "x"),
				Y: rapid.Float64Range(0, config.ScreenHeight).Draw(t, "y"),
			},
		}
	})
}

func genIntents() *rapid.Generator[Intents] {
	return rapid.Custom(func(t *rapid.T) Intents {
		return Intents{
			MoveUp:     rapid.Bool().Draw(t, "up"),
			MoveDown:   rapid.Bool().Draw(t, "down"),
			DodgeLeft:  rapid.Bool().Draw(t, "dodgeLeft"),
			DodgeRight: rapid.Bool().Draw(t, "dodgeRight"),
			Pointer:    rapid.SliceOfN(genPointer(), 0, 3).Draw(t, "pointer"),
		}
	})
}

func TestWorldInvariantsHold(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		logger := log.New(io.Discard)
		clk := clock.NewManual(t0)
		w := New(Options{
			Clock:  clk,
			Rand:   rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed"))),
			Board:  score.NewBoard(&score.MemoryStore{}, logger),
			Logger: logger,
		})
		lo, hi := w.player.OffsetBounds()

		frames := rapid.SliceOfN(genIntents(), 1, 300).Draw(t, "frames")
		for i, in := range frames {
			ms := rapid.IntRange(0, 120).Draw(t, "ms")
			clk.Advance(time.Duration(ms) * time.Millisecond)
			w.Step(in)

			p := w.player
			if p.Health < 0 || p.Health > p.MaxHealth {
				t.Fatalf("frame %d: health %d out of range", i, p.Health)
			}
			if p.DodgeCharges < 0 || p.DodgeCharges > p.MaxDodgeCharges {
				t.Fatalf("frame %d: dodge charges %d out of range", i, p.DodgeCharges)
			}
			if p.Offset < lo || p.Offset > hi {
				t.Fatalf("frame %d: offset %f outside [%f, %f]", i, p.Offset, lo, hi)
			}
			if w.board.Score() < 0 || w.board.High() < 0 {
				t.Fatalf("frame %d: score %d high %d", i, w.board.Score(), w.board.High())
			}
			for _, b := range w.bullets {
				if b.IsDestroyed() {
					t.Fatalf("frame %d: destroyed bullet survived the purge", i)
				}
			}
			if len(w.toSpawn) != 0 {
				t.Fatalf("frame %d: %d spawns left queued", i, len(w.toSpawn))
			}
			if w.RoundOver() {
				w.NewRound()
			}
		}
	})
}
