// Package score tracks the current score and the persisted high score.
package score

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// ErrMalformed is returned by FileStore.Load when the file does not hold an integer.
var ErrMalformed = errors.New("malformed high score")

// Store persists a single high score value.
type Store interface {
	// Load returns the stored high score. A missing value loads as 0.
	Load() (int, error)
	// Save replaces the stored high score.
	Save(high int) error
}

// FileStore keeps the high score as a decimal integer in a text file.
// It is safe for concurrent use by multiple sessions.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the high score. A missing file loads as 0 with no error;
// unparseable or negative content loads as 0 with ErrMalformed.
func (s *FileStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}

	text := strings.TrimSpace(string(data))
	high, err := strconv.Atoi(text)
	if err != nil || high < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, text)
	}
	return high, nil
}

// Save writes the high score, replacing any previous content.
func (s *FileStore) Save(high int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(strconv.Itoa(high)), 0o644); err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	return nil
}

// MemoryStore keeps the high score in memory.
type MemoryStore struct {
	mu   sync.Mutex
	high int
}

// Load returns the stored value.
func (s *MemoryStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.high, nil
}

// Save stores the value.
func (s *MemoryStore) Save(high int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.high = high
	return nil
}

// MaxStore shares one high score between many boards. It remembers the best
// value seen and only forwards saves that beat it, so a session holding a
// stale high score cannot lower the persisted one.
type MaxStore struct {
	mu     sync.Mutex
	inner  Store
	high   int
	loaded bool
}

// NewMaxStore wraps inner.
func NewMaxStore(inner Store) *MaxStore {
	return &MaxStore{inner: inner}
}

// Load returns the best known value, reading inner the first time.
func (s *MaxStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		high, err := s.inner.Load()
		if err != nil {
			return 0, err
		}
		s.high = high
		s.loaded = true
	}
	return s.high, nil
}

// Save persists high if it beats the best known value.
func (s *MaxStore) Save(high int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && high <= s.high {
		return nil
	}
	if err := s.inner.Save(high); err != nil {
		return err
	}
	s.high = high
	s.loaded = true
	return nil
}
