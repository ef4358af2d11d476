package lilypond

import (
	"github.com/Harvard-ATG/HarmonyLab/models"
)

// NoteEventOptions controls how chords are laid out on a beat timeline
type NoteEventOptions struct {
	BeatsPerChord float64 // Length of each chord (default: 4, a whole note)
	Velocity      int     // Note velocity (default: 100)
	StartBeat     float64 // Beat of the first chord
	IncludeHidden bool    // Also emit hidden notes, flagged as Hidden
}

const (
	defaultBeatsPerChord = 4.0
	defaultVelocity      = 100
)

// ChordsToNoteEvents converts parsed chords into simultaneous NoteEvents, one
// chord after another. Visible notes come before hidden ones within a chord.
func ChordsToNoteEvents(chords []models.MIDIChord, opts NoteEventOptions) []models.NoteEvent {
	beatsPerChord := opts.BeatsPerChord
	if beatsPerChord <= 0 {
		beatsPerChord = defaultBeatsPerChord
	}
	velocity := opts.Velocity
	if velocity <= 0 {
		velocity = defaultVelocity
	}

	noteEvents := make([]models.NoteEvent, 0)
	currentBeat := opts.StartBeat

	for _, c := range chords {
		// All notes of the chord start simultaneously
		for _, midiNote := range c.Visible {
			noteEvents = append(noteEvents, models.NoteEvent{
				MidiNoteNumber: midiNote,
				Velocity:       velocity,
				StartBeats:     currentBeat,
				DurationBeats:  beatsPerChord,
			})
		}
		if opts.IncludeHidden {
			for _, midiNote := range c.Hidden {
				noteEvents = append(noteEvents, models.NoteEvent{
					MidiNoteNumber: midiNote,
					Velocity:       velocity,
					StartBeats:     currentBeat,
					DurationBeats:  beatsPerChord,
					Hidden:         true,
				})
			}
		}

		currentBeat += beatsPerChord
	}

	return noteEvents
}

// TotalBeats returns the beat at which the last event ends
func TotalBeats(events []models.NoteEvent) float64 {
	var end float64
	for _, e := range events {
		if e.StartBeats+e.DurationBeats > end {
			end = e.StartBeats + e.DurationBeats
		}
	}
	return end
}
