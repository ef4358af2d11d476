package lilypond

import (
	"testing"

	"github.com/Harvard-ATG/HarmonyLab/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordsToNoteEvents(t *testing.T) {
	chords, err := Parse("<c e g>1 <f \\xNote a c'>1")
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		events := ChordsToNoteEvents(chords, NoteEventOptions{})
		require.Len(t, events, 5)

		for _, e := range events[:3] {
			assert.Equal(t, 0.0, e.StartBeats)
			assert.Equal(t, 4.0, e.DurationBeats)
			assert.Equal(t, 100, e.Velocity)
		}
		assert.Equal(t, []int{48, 52, 55}, notes(events[:3]))
		assert.Equal(t, []int{53, 60}, notes(events[3:]))
		assert.Equal(t, 4.0, events[3].StartBeats)
		assert.Equal(t, 8.0, TotalBeats(events))
	})

	t.Run("hidden notes included", func(t *testing.T) {
		events := ChordsToNoteEvents(chords, NoteEventOptions{
			BeatsPerChord: 2,
			Velocity:      80,
			StartBeat:     1,
			IncludeHidden: true,
		})
		require.Len(t, events, 6)

		last := events[len(events)-1]
		assert.Equal(t, 57, last.MidiNoteNumber)
		assert.True(t, last.Hidden)
		assert.Equal(t, 3.0, last.StartBeats)
		assert.Equal(t, 80, last.Velocity)
		assert.Equal(t, 5.0, TotalBeats(events))
	})

	t.Run("no chords", func(t *testing.T) {
		events := ChordsToNoteEvents(nil, NoteEventOptions{})
		assert.Empty(t, events)
		assert.Equal(t, 0.0, TotalBeats(events))
	})
}

func notes(events []models.NoteEvent) []int {
	result := make([]int, 0, len(events))
	for _, e := range events {
		result = append(result, e.MidiNoteNumber)
	}
	return result
}
