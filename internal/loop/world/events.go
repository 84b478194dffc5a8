package world

import "github.com/SpinellyA/freefall-io/internal/physics"

// EventType identifies what happened during a step.
type EventType int

const (
	EventGrenadeThrown EventType = iota
	EventEnemyKilled
	EventPlayerHit
	EventPlayerDodged
	EventPlayerDied
	EventHighScore
)

var eventNames = [...]string{
	EventGrenadeThrown: "grenade_thrown",
	EventEnemyKilled:   "enemy_killed",
	EventPlayerHit:     "player_hit",
	EventPlayerDodged:  "player_dodged",
	EventPlayerDied:    "player_died",
	EventHighScore:     "high_score",
}

func (t EventType) String() string {
	if int(t) < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Event is a notable world change, drained by presentation layers once per frame.
type Event struct {
	Type   EventType
	Pos    physics.Vec // Where it happened, if anywhere
	Health int         // Player health after the event
	Score  int         // Final score for EventPlayerDied, new high for EventHighScore
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

// DrainEvents returns the events since the last drain and clears the buffer.
func (w *World) DrainEvents() []Event {
	if len(w.events) == 0 {
		return nil
	}
	out := make([]Event, len(w.events))
	copy(out, w.events)
	w.events = w.events[:0]
	return out
}
