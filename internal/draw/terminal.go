package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Terminal control sequences.
const (
	SeqClear      = "\033[H\033[2J"
	SeqHideCursor = "\033[?25l"
	SeqShowCursor = "\033[?25h"

	// Any-motion tracking (1003) reports the pointer with no button held,
	// SGR encoding (1006) lifts the 223 column limit.
	SeqMouseOn  = "\033[?1003h\033[?1006h"
	SeqMouseOff = "\033[?1006l\033[?1003l"
)

// maxChunkSize is the largest single write, kept under a typical MTU so
// frames stream smoothly over SSH.
const maxChunkSize = 1400

// writeChunks writes data to w in pieces of at most maxChunkSize bytes.
func writeChunks(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, SeqClear)
}

// EnterScreen prepares the terminal for a game session: the cursor is hidden,
// mouse reporting is switched on when mouse is true and the screen is cleared.
// The returned func undoes the modes and should be deferred.
func EnterScreen(w io.Writer, mouse bool) (restore func()) {
	enter, leave := SeqHideCursor, SeqShowCursor
	if mouse {
		enter += SeqMouseOn
		leave = SeqMouseOff + leave
	}
	io.WriteString(w, enter+SeqClear)
	return func() { io.WriteString(w, leave) }
}

// ChunkWriter collects one frame of terminal output and sends it with
// writeChunks on Flush. Cursor positions are shifted by the canvas offset.
type ChunkWriter struct {
	out      io.Writer
	frame    []byte
	col, row int // Offset added to every cursor move
}

var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter for w with the given cursor offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, frame: make([]byte, 0, 8192), col: offsetCol, row: offsetRow}
}

// SetOffset changes the cursor offset, after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.col, cw.row = offsetCol, offsetRow
}

// MoveCursor queues a move to the 1-based canvas cell col, row.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.frame = append(cw.frame, "\033["...)
	cw.frame = strconv.AppendInt(cw.frame, int64(row+cw.row), 10)
	cw.frame = append(cw.frame, ';')
	cw.frame = strconv.AppendInt(cw.frame, int64(col+cw.col), 10)
	cw.frame = append(cw.frame, 'H')
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.frame = append(cw.frame, p...)
	return len(p), nil
}

// WriteString queues s at the current cursor position.
func (cw *ChunkWriter) WriteString(s string) {
	cw.frame = append(cw.frame, s...)
}

// WriteAt queues s at the 1-based canvas cell col, row.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.WriteString(s)
}

// Flush sends the queued frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	err := writeChunks(cw.out, cw.frame)
	cw.frame = cw.frame[:0]
	return err
}

// TermSizeFunc reports the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc asks the terminal behind os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FixedTermSize returns a TermSizeFunc that always reports width x height.
func FixedTermSize(width, height int) TermSizeFunc {
	return func() (int, int, error) {
		return width, height, nil
	}
}
