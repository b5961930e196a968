package input

import (
	"bufio"
)

// Input represents the keys pressed since the previous read.
// Each action fires once per key press.
type Input struct {
	Quit    bool // q, Q or Ctrl-C
	Shake   bool // space
	Reset   bool // r
	Pause   bool // p
	Overlay bool // g, toggles the quadtree overlay
	Help    bool // h or ?
	Pressed []byte
}

// Any reports whether any byte was read.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
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

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Escape sequences (arrow keys and the like) are consumed without effect.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
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

	return Parse(buf)
}

// Parse maps raw terminal bytes to actions.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			i += 2
			continue
		}
		applyByte(&in, b)
	}
	return in
}

// applyByte sets the action bound to b.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ':
		in.Shake = true
	case 'r', 'R':
		in.Reset = true
	case 'p', 'P':
		in.Pause = true
	case 'g', 'G':
		in.Overlay = true
	case 'h', 'H', '?':
		in.Help = true
	}
}
