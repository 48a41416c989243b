package terminal

import (
	"bytes"
	"strconv"
)

// EventKind is a decoded terminal input.
type EventKind int

const (
	EventNone EventKind = iota
	EventUp
	EventDown
	EventLeft
	EventRight
	EventSelect
	EventMouse // left button press at (X, Y), 0-based terminal cell
	EventNewGame
	EventQuit
)

// Event is one decoded input.
type Event struct {
	Kind EventKind
	X, Y int
}

// ParseInput decodes a chunk read from a raw-mode terminal. It understands arrow keys,
// WASD, space/enter, n, q, Ctrl-C and SGR mouse reports (ESC [ < b ; x ; y M).
// Unknown bytes are skipped.
func ParseInput(buf []byte) []Event {
	var events []Event
	for len(buf) > 0 {
		ev, n := parseOne(buf)
		buf = buf[n:]
		if ev.Kind != EventNone {
			events = append(events, ev)
		}
	}
	return events
}

func parseOne(buf []byte) (Event, int) {
	if buf[0] == 0x1b {
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return Event{Kind: EventUp}, 3
			case 'B':
				return Event{Kind: EventDown}, 3
			case 'C':
				return Event{Kind: EventRight}, 3
			case 'D':
				return Event{Kind: EventLeft}, 3
			case '<':
				return parseSGRMouse(buf)
			}
		}
		return Event{}, 1
	}

	switch buf[0] {
	case 'w', 'W', 'k':
		return Event{Kind: EventUp}, 1
	case 's', 'S', 'j':
		return Event{Kind: EventDown}, 1
	case 'a', 'A', 'h':
		return Event{Kind: EventLeft}, 1
	case 'd', 'D', 'l':
		return Event{Kind: EventRight}, 1
	case ' ', '\r', '\n':
		return Event{Kind: EventSelect}, 1
	case 'n', 'N':
		return Event{Kind: EventNewGame}, 1
	case 'q', 'Q', 0x03:
		return Event{Kind: EventQuit}, 1
	}
	return Event{}, 1
}

// parseSGRMouse decodes ESC [ < b ; x ; y (M|m). Only left button presses produce an event.
func parseSGRMouse(buf []byte) (Event, int) {
	end := bytes.IndexAny(buf[3:], "Mm")
	if end < 0 {
		return Event{}, len(buf)
	}
	n := 3 + end + 1
	fields := bytes.Split(buf[3:3+end], []byte{';'})
	if len(fields) != 3 {
		return Event{}, n
	}
	b, err1 := strconv.Atoi(string(fields[0]))
	x, err2 := strconv.Atoi(string(fields[1]))
	y, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return Event{}, n
	}
	// Left button, no motion or wheel bits, press not release.
	if buf[n-1] != 'M' || b&3 != 0 || b&(32|64) != 0 {
		return Event{}, n
	}
	return Event{Kind: EventMouse, X: x - 1, Y: y - 1}, n
}
