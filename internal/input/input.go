// Package input turns a raw terminal byte stream into controller state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so holding relies on key repeat.
const keyHoldDuration = 120 * time.Millisecond

// StickRange is the largest stick deflection in either direction.
const StickRange = 85

// stickStep is how far one stick key press moves the emulated stick.
const stickStep = 10

// Buttons is a set of controller buttons.
type Buttons uint16

const (
	ButtonStart Buttons = 1 << iota
	ButtonA
	ButtonB
	ButtonL
	ButtonR
	ButtonDUp
	ButtonDDown
	ButtonCUp
	ButtonCDown
	ButtonCLeft
	ButtonCRight
)

// Has reports whether every button in x is in the set.
func (b Buttons) Has(x Buttons) bool {
	return b&x == x
}

// Input represents the current frame's input state.
type Input struct {
	Pressed Buttons // Went down this frame
	Held    Buttons // Currently down
	StickY  int8    // [-StickRange, StickRange], positive is up
	Quit    bool
}

// Stream delivers input bytes via a channel and tracks key state across frames.
type Stream struct {
	ch     chan byte
	last   [16]time.Time // Last press per button bit
	stickY int
	quit   bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
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

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.quit = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.parse(buf, time.Now())
}

// Reset forgets held keys and recenters the stick.
func (s *Stream) Reset() {
	s.last = [16]time.Time{}
	s.stickY = 0
}

// parse applies the bytes seen this frame and builds the frame's input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var pressed Buttons
	quit := s.quit

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			var btn Buttons
			switch buf[i+2] {
			case 'A': // Up arrow
				btn = ButtonCUp
			case 'B': // Down arrow
				btn = ButtonCDown
			case 'C': // Right arrow
				btn = ButtonCRight
			case 'D': // Left arrow
				btn = ButtonCLeft
			}
			if btn != 0 {
				pressed |= btn
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03':
			quit = true
		case 'i', 'I':
			s.moveStick(stickStep)
		case 'k', 'K':
			s.moveStick(-stickStep)
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			// Digits set the stick directly, 0 fully down to 9 fully up.
			s.stickY = -StickRange + int(b-'0')*2*StickRange/9
		default:
			pressed |= buttonForByte(b)
		}
	}

	var held Buttons
	for bit := 0; bit < len(s.last); bit++ {
		btn := Buttons(1) << bit
		if pressed.Has(btn) {
			s.last[bit] = now
		}
		if !s.last[bit].IsZero() && now.Sub(s.last[bit]) < keyHoldDuration {
			held |= btn
		}
	}

	return Input{
		Pressed: pressed,
		Held:    held,
		StickY:  int8(s.stickY),
		Quit:    quit,
	}
}

func (s *Stream) moveStick(d int) {
	s.stickY += d
	if s.stickY > StickRange {
		s.stickY = StickRange
	} else if s.stickY < -StickRange {
		s.stickY = -StickRange
	}
}

// buttonForByte maps a single key to a button.
func buttonForByte(b byte) Buttons {
	switch b {
	case ' ', '\n', '\r':
		return ButtonStart
	case 'a', 'A':
		return ButtonA
	case 'b', 'B':
		return ButtonB
	case '[':
		return ButtonL
	case ']':
		return ButtonR
	case 'w', 'W':
		return ButtonDUp
	case 's', 'S':
		return ButtonDDown
	case 't', 'T':
		return ButtonCUp
	case 'g', 'G':
		return ButtonCDown
	case 'f', 'F':
		return ButtonCLeft
	case 'h', 'H':
		return ButtonCRight
	}
	return 0
}
