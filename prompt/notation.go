package prompt

import (
	"fmt"
	"strings"
)

// NotationReferenceBuilder builds the reference text shown to instructors who
// enter chords in LilyPond notation
type NotationReferenceBuilder struct {
	startOctave int
}

// NewNotationReferenceBuilder creates a new builder. startOctave is the octave
// unmarked pitch names resolve to.
func NewNotationReferenceBuilder(startOctave int) *NotationReferenceBuilder {
	return &NotationReferenceBuilder{startOctave: startOctave}
}

// Build returns the complete reference
func (b *NotationReferenceBuilder) Build() string {
	sections := []string{
		b.getIntroduction(),
		b.getPitchReference(),
		b.getChordReference(),
		b.getExamples(),
	}

	return strings.Join(sections, "\n\n")
}

// Summary is a one-paragraph version used in command help
func (b *NotationReferenceBuilder) Summary() string {
	return `Chords are written in a subset of LilyPond notation: pitch names a-g,
' and , for octaves, s and f for sharps and flats, chords in <angle brackets>,
and x or \xNote to hide a note.`
}

func (b *NotationReferenceBuilder) getIntroduction() string {
	return `CHORD NOTATION

Exercises are entered as a chord sequence in a subset of LilyPond notation
(http://lilypond.org), using absolute octave entry: each pitch is placed in
its octave on its own and does not depend on the pitch before it.`
}

func (b *NotationReferenceBuilder) getPitchReference() string {
	middleC := (b.startOctave+1)*12 + 0
	return fmt.Sprintf(`PITCHES

- A pitch name is one of the letters a through g. The names c to b sit in the
  octave below middle C (c = MIDI %d, c' = middle C = MIDI %d).
- Each ' raises the pitch by one octave; each , lowers it by one octave.
- A digit sets the octave directly: c3 is MIDI 36. Marks written after the
  digit still apply (c3' = MIDI 48), marks before it are discarded.
- Add "s" for a sharp and "f" for a flat: cs, bf. Marks add up: css, eff.
- Upper and lower case are treated the same.`, b.startOctave*12, middleC)
}

func (b *NotationReferenceBuilder) getChordReference() string {
	return `CHORDS

- A chord is a group of pitches in angle brackets: <c e g>. At least one
  chord is needed for an exercise to have anything to play.
- Durations and other text outside the brackets are ignored: <c e g>1.
- Prefix a pitch with x or \xNote to hide it from the student while keeping
  it in the exercise: <c e \xNote g>.
- The whole sequence is rejected if any pitch cannot be read; the message
  names the pitch and the chord it was found in.`
}

func (b *NotationReferenceBuilder) getExamples() string {
	return `EXAMPLES

  <c e g>1                    C major triad below middle C
  <e c' g' bf'>1 <f c' f' a'>1  V7 to I in F
  <c' e' g' \xNote bf'>1      hidden seventh`
}
