// Package input decodes a raw terminal byte stream into held keys, key taps and
// SGR mouse events.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Key identifies a logical key. Keys combine as a bit set.
type Key uint16

const (
	KeyUp Key = 1 << iota
	KeyDown
	KeyLeft
	KeyRight
	KeyAimUp
	KeyAimDown
	KeyAimLeft
	KeyAimRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyQuit
)

// MouseKind identifies a mouse report.
type MouseKind int

const (
	MouseMove MouseKind = iota
	MousePress
	MouseRelease
)

// MouseEvent is one SGR mouse report. Col and Row are 1-based terminal cells.
type MouseEvent struct {
	Kind   MouseKind
	Button int // 0 left, 1 middle, 2 right, 3 none (motion without buttons)
	Col    int
	Row    int
}

// Input represents the current frame's input state.
type Input struct {
	Quit     bool
	Up       bool
	Down     bool
	Left     bool
	Right    bool
	AimUp    bool
	AimDown  bool
	AimLeft  bool
	AimRight bool
	Space    bool
	Enter    bool
	Escape   bool

	Taps    Key          // Keys pressed at least once this frame
	Mouse   []MouseEvent // Mouse reports in arrival order
	Pressed []byte       // Raw bytes read this frame
	Closed  bool         // The underlying reader ended
}

// Tapped reports whether k was pressed during this frame.
func (in Input) Tapped(k Key) bool {
	return in.Taps&k != 0
}

// Decoder turns raw terminal bytes into key state. It keeps the tail of an
// escape sequence split across reads until the rest arrives.
type Decoder struct {
	held    [16]time.Time
	pending []byte
	taps    Key
	mouse   []MouseEvent
}

// Feed decodes buf, stamping every key it contains with now.
func (d *Decoder) Feed(buf []byte, now time.Time) {
	if len(d.pending) > 0 {
		if len(buf) == 0 && len(d.pending) == 1 {
			// Nothing followed the ESC within a frame: it was the Escape key.
			d.pending = nil
			d.press(KeyEscape, now)
			return
		}
		buf = append(d.pending, buf...)
		d.pending = nil
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			d.press(keyForByte(b), now)
			continue
		}

		n, complete := d.escape(buf[i:], now)
		if !complete {
			d.pending = append([]byte(nil), buf[i:]...)
			return
		}
		i += n - 1
	}
}

// escape decodes the sequence starting at seq[0] == ESC and returns how many
// bytes it used. complete is false when seq ends mid-sequence.
func (d *Decoder) escape(seq []byte, now time.Time) (n int, complete bool) {
	if len(seq) == 1 {
		return 0, false
	}
	if seq[1] != '[' {
		d.press(KeyEscape, now)
		return 1, true
	}
	if len(seq) == 2 {
		return 0, false
	}

	switch seq[2] {
	case 'A':
		d.press(KeyUp, now)
		return 3, true
	case 'B':
		d.press(KeyDown, now)
		return 3, true
	case 'C':
		d.press(KeyRight, now)
		return 3, true
	case 'D':
		d.press(KeyLeft, now)
		return 3, true
	case '<':
		return d.mouseReport(seq)
	}

	// Unknown CSI: skip to its final byte.
	for j := 2; j < len(seq); j++ {
		if seq[j] >= 0x40 && seq[j] <= 0x7e {
			return j + 1, true
		}
	}
	return 0, false
}

// mouseReport decodes ESC [ < b ; col ; row (M|m).
func (d *Decoder) mouseReport(seq []byte) (n int, complete bool) {
	var fields [3]int
	field := 0
	start := 3
	for j := 3; j < len(seq); j++ {
		c := seq[j]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' || c == 'M' || c == 'm':
			if field > 2 {
				return j + 1, true
			}
			v, err := strconv.Atoi(string(seq[start:j]))
			if err != nil {
				return j + 1, true
			}
			fields[field] = v
			field++
			start = j + 1
			if c == ';' {
				continue
			}
			if field == 3 {
				d.addMouse(fields[0], fields[1], fields[2], c == 'M')
			}
			return j + 1, true
		default:
			// Malformed; drop what we have.
			return j + 1, true
		}
	}
	return 0, false
}

func (d *Decoder) addMouse(b, col, row int, pressed bool) {
	if b&64 != 0 {
		return // wheel
	}
	ev := MouseEvent{Button: b & 3, Col: col, Row: row}
	switch {
	case b&32 != 0:
		ev.Kind = MouseMove
	case pressed:
		ev.Kind = MousePress
	default:
		ev.Kind = MouseRelease
	}
	d.mouse = append(d.mouse, ev)
}

func (d *Decoder) press(k Key, now time.Time) {
	if k == 0 {
		return
	}
	d.taps |= k
	for i := range d.held {
		if k&(1<<i) != 0 {
			d.held[i] = now
		}
	}
}

func (d *Decoder) isHeld(k Key, now time.Time) bool {
	for i := range d.held {
		if k&(1<<i) != 0 {
			return now.Sub(d.held[i]) < keyHoldDuration
		}
	}
	return false
}

// Input builds the frame state at now and starts a new frame: taps and mouse
// reports are handed out once.
func (d *Decoder) Input(now time.Time) Input {
	in := Input{
		Quit:     d.isHeld(KeyQuit, now),
		Up:       d.isHeld(KeyUp, now),
		Down:     d.isHeld(KeyDown, now),
		Left:     d.isHeld(KeyLeft, now),
		Right:    d.isHeld(KeyRight, now),
		AimUp:    d.isHeld(KeyAimUp, now),
		AimDown:  d.isHeld(KeyAimDown, now),
		AimLeft:  d.isHeld(KeyAimLeft, now),
		AimRight: d.isHeld(KeyAimRight, now),
		Space:    d.isHeld(KeySpace, now),
		Enter:    d.isHeld(KeyEnter, now),
		Escape:   d.isHeld(KeyEscape, now),
		Taps:     d.taps,
		Mouse:    d.mouse,
	}
	d.taps = 0
	d.mouse = nil
	return in
}

// Reset forgets every held key, tap and partial sequence.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// keyForByte maps a single byte to its key, or 0.
func keyForByte(b byte) Key {
	switch b {
	case 'q', 'Q':
		return KeyQuit
	case 'w', 'W':
		return KeyUp
	case 's', 'S':
		return KeyDown
	case 'a', 'A':
		return KeyLeft
	case 'd', 'D':
		return KeyRight
	case 'i', 'I':
		return KeyAimUp
	case 'k', 'K':
		return KeyAimDown
	case 'j', 'J':
		return KeyAimLeft
	case 'l', 'L':
		return KeyAimRight
	case ' ':
		return KeySpace
	case '\n', '\r':
		return KeyEnter
	}
	return 0
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	dec    Decoder
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// returns the input state for this frame.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.dec.Feed(buf, now)
	in := s.dec.Input(now)
	in.Pressed = buf
	in.Closed = s.closed
	return in
}

// ResetKeyInput clears held key state, so a key pressed on one screen does not
// carry over as held on the next.
func ResetKeyInput(s *Stream) {
	s.dec.Reset()
}
