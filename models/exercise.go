package models

import "encoding/json"

// MIDIChord is one resolved chord: the sounding (visible) notes and the
// notes the engine knows about but does not display (hidden), in source order.
type MIDIChord struct {
	Visible []int `json:"visible"`
	Hidden  []int `json:"hidden"`
}

// NoteEvent is a single note placed on a beat timeline
type NoteEvent struct {
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"startBeats"`
	DurationBeats  float64 `json:"durationBeats"`
	Hidden         bool    `json:"hidden,omitempty"`
}

// ExerciseOutput is what the exercise pipeline hands back to its caller
type ExerciseOutput struct {
	RunID      string          `json:"run_id"`
	Type       string          `json:"type"`
	Chords     []MIDIChord     `json:"chord"`
	Definition json.RawMessage `json:"definition,omitempty"`
	Artifacts  []ArtifactStats `json:"artifacts,omitempty"`
}

// ArtifactStats describes a rendered file
type ArtifactStats struct {
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
}
