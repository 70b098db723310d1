package gosinesynth

import (
	"gitlab.com/gomidi/midi/v2"
)

// DecodeMIDI turns a raw MIDI message into a note event at offset.
// Only note-on and note-off are recognised; a note-on with velocity 0 is a
// note-off. ok is false for any other message, which callers skip.
func DecodeMIDI(offset int, raw []byte) (ev Event, ok bool) {
	msg := midi.Message(raw)

	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return NoteOn(offset, key, velocity), true
	case msg.GetNoteEnd(&channel, &key):
		return NoteOff(offset, key), true
	}
	return Event{}, false
}
