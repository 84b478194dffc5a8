package score

import (
	"github.com/charmbracelet/log"
)

// Board holds the running score of one world and its cached high score.
type Board struct {
	store Store
	log   *log.Logger
	score int
	high  int
}

// NewBoard creates a board and loads the high score from store.
// Load failures are logged at debug and start the high score at 0.
// A nil logger uses the package default.
func NewBoard(store Store, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	b := &Board{store: store, log: logger}

	high, err := store.Load()
	if err != nil {
		logger.Debug("high score unavailable, starting at 0", "err", err)
		high = 0
	}
	b.high = high
	return b
}

// Refresh raises the cached high score to the stored one if another board
// has beaten it since.
func (b *Board) Refresh() {
	high, err := b.store.Load()
	if err != nil {
		return
	}
	if high > b.high {
		b.high = high
	}
}

// Add increases the current score by n. Negative n is ignored.
func (b *Board) Add(n int) {
	if n > 0 {
		b.score += n
	}
}

// Score returns the current score.
func (b *Board) Score() int {
	return b.score
}

// High returns the high score.
func (b *Board) High() int {
	return b.high
}

// Commit ends the current run: the high score becomes max(high, score) and is
// saved only if it grew, then the score resets to 0. Returns true on a new high score.
func (b *Board) Commit() (newHigh bool) {
	if b.score > b.high {
		b.high = b.score
		newHigh = true
		if err := b.store.Save(b.high); err != nil {
			b.log.Warn("failed to save high score", "high", b.high, "err", err)
		}
	}
	b.score = 0
	return newHigh
}
