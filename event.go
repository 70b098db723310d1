package gosinesynth

import "fmt"

// EventKind is the type of a note event
type EventKind uint8

const (
	EventNone EventKind = iota
	EventNoteOn
	EventNoteOff
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "NoteOn"
	case EventNoteOff:
		return "NoteOff"
	}
	return "None"
}

// Event is a note event positioned inside the current block.
// Offset is the sample index, relative to the block start, at which the
// event takes effect. Velocity is ignored for note-off.
type Event struct {
	Offset   int
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

// NoteOn returns a note-on event at offset
func NoteOn(offset int, note, velocity uint8) Event {
	return Event{Offset: offset, Kind: EventNoteOn, Note: note, Velocity: velocity}
}

// NoteOff returns a note-off event at offset
func NoteOff(offset int, note uint8) Event {
	return Event{Offset: offset, Kind: EventNoteOff, Note: note}
}

func (e Event) String() string {
	return fmt.Sprintf("%s{note:%d, vel:%d, offset:%d}", e.Kind, e.Note, e.Velocity, e.Offset)
}
