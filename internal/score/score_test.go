package score_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"go.uber.org/mock/gomock"

	"github.com/SpinellyA/freefall-io/internal/score"
	"github.com/SpinellyA/freefall-io/internal/score/mocks"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := score.NewFileStore(filepath.Join(t.TempDir(), "highscore.txt"))

	if high, err := s.Load(); err != nil || high != 0 {
		t.Fatalf("Load() on missing file = %d, %v; want 0, nil", high, err)
	}
	if err := s.Save(42); err != nil {
		t.Fatalf("Save(42) error: %v", err)
	}
	if high, err := s.Load(); err != nil || high != 42 {
		t.Errorf("Load() = %d, %v; want 42, nil", high, err)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	tests := []string{"", "abc", "-5", "12.5"}
	for _, content := range tests {
		path := filepath.Join(t.TempDir(), "highscore.txt")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		high, err := score.NewFileStore(path).Load()
		if high != 0 || !errors.Is(err, score.ErrMalformed) {
			t.Errorf("Load(%q) = %d, %v; want 0, ErrMalformed", content, high, err)
		}
	}
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	if err := os.WriteFile(path, []byte("17\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if high, err := score.NewFileStore(path).Load(); err != nil || high != 17 {
		t.Errorf("Load() = %d, %v; want 17, nil", high, err)
	}
}

func TestBoardMalformedStartsAtZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.txt")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := score.NewBoard(score.NewFileStore(path), quietLogger())
	if b.High() != 0 {
		t.Errorf("High() = %d, want 0", b.High())
	}
}

func TestBoardCommitPersistsOnlyIncrease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return(5, nil)
	store.EXPECT().Save(7).Return(nil).Times(1)

	b := score.NewBoard(store, quietLogger())
	b.Add(3)
	if b.Commit() {
		t.Error("Commit() reported a new high score for 3 < 5")
	}
	if b.Score() != 0 || b.High() != 5 {
		t.Errorf("score %d high %d, want 0 5", b.Score(), b.High())
	}

	b.Add(7)
	if !b.Commit() {
		t.Error("Commit() did not report a new high score for 7 > 5")
	}
	if b.Score() != 0 || b.High() != 7 {
		t.Errorf("score %d high %d, want 0 7", b.Score(), b.High())
	}
}

func TestBoardSaveFailureKeepsPlaying(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Load().Return(0, nil)
	store.EXPECT().Save(gomock.Any()).Return(errors.New("disk full"))

	b := score.NewBoard(store, quietLogger())
	b.Add(4)
	if !b.Commit() {
		t.Error("Commit() = false, want true")
	}
	if b.High() != 4 || b.Score() != 0 {
		t.Errorf("score %d high %d, want 0 4", b.Score(), b.High())
	}
}

func TestBoardIgnoresNegative(t *testing.T) {
	b := score.NewBoard(&score.MemoryStore{}, quietLogger())
	b.Add(2)
	b.Add(-5)
	if b.Score() != 2 {
		t.Errorf("Score() = %d, want 2", b.Score())
	}
}

func TestMaxStoreNeverLowers(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockStore(ctrl)
	inner.EXPECT().Load().Return(10, nil).Times(1)
	inner.EXPECT().Save(20).Return(nil).Times(1)

	shared := score.NewMaxStore(inner)
	a := score.NewBoard(shared, quietLogger())
	b := score.NewBoard(shared, quietLogger())

	b.Add(20)
	b.Commit()

	// a still caches 10 and thinks 15 is a record; the store keeps 20.
	a.Add(15)
	a.Commit()

	if high, _ := shared.Load(); high != 20 {
		t.Errorf("shared high = %d, want 20", high)
	}
}

func TestBoardRefresh(t *testing.T) {
	shared := score.NewMaxStore(&score.MemoryStore{})
	a := score.NewBoard(shared, quietLogger())
	b := score.NewBoard(shared, quietLogger())

	b.Add(9)
	b.Commit()
	if a.High() != 0 {
		t.Fatalf("a.High() = %d before refresh", a.High())
	}
	a.Refresh()
	if a.High() != 9 {
		t.Errorf("a.High() = %d after refresh, want 9", a.High())
	}
}
