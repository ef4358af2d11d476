package lilypond

import (
	"regexp"
	"strings"

	"github.com/Harvard-ATG/HarmonyLab/models"
)

// DefaultStartOctave is the octave of an unmarked pitch name (c = 48).
const DefaultStartOctave = 4

const (
	hiddenMarker = 'x'
	octaveUp     = '\''
	octaveDown   = ','
	sharp        = 's'
	flat         = 'f'
)

var (
	chordPattern      = regexp.MustCompile(`<([^>]+)>`)
	hiddenNotePattern = regexp.MustCompile(`\\xNote\s*`)
)

// LilyPondParser parses a chord sequence written in a subset of LilyPond
// notation (http://lilypond.org) into MIDI note numbers.
//
// Supported subset:
//   - Absolute octave entry. Pitch names are the letters a through g and
//     c through b sit in the octave below middle C.
//   - Each ' raises a pitch by one octave, each , lowers it by one. A digit
//     sets the octave explicitly.
//   - "s" sharpens and "f" flattens a pitch; marks accumulate.
//   - A chord is a group of pitches in angle brackets, e.g. <c e g>.
//   - A pitch prefixed with "x" or \xNote is hidden.
//
// Parsing happens once, at construction. The result is all-or-nothing: when
// any pitch fails to parse, ToMIDI returns nil and Errors reports the failure.
type LilyPondParser struct {
	input       string
	startOctave int
	chords      []models.MIDIChord
	err         error
}

// Option configures a LilyPondParser
type Option func(*LilyPondParser)

// WithStartOctave overrides the octave of unmarked pitches
func WithStartOctave(octave int) Option {
	return func(p *LilyPondParser) {
		p.startOctave = octave
	}
}

// NewLilyPondParser parses input and returns the parser holding the result
func NewLilyPondParser(input string, opts ...Option) *LilyPondParser {
	p := &LilyPondParser{
		input:       input,
		startOctave: DefaultStartOctave,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.chords, p.err = ParseWithOctave(p.input, p.startOctave)
	return p
}

// IsValid reports whether the whole input was understood
func (p *LilyPondParser) IsValid() bool {
	return p.err == nil
}

// ToMIDI returns the parsed chords, or nil if the input was invalid
func (p *LilyPondParser) ToMIDI() []models.MIDIChord {
	return p.chords
}

// Err returns the first parse failure, if any
func (p *LilyPondParser) Err() error {
	return p.err
}

// Errors returns the failure messages for display. Parsing stops at the first
// bad pitch, so there is at most one.
func (p *LilyPondParser) Errors() []string {
	if p.err == nil {
		return nil
	}
	return []string{p.err.Error()}
}

// Input returns the notation the parser was built with
func (p *LilyPondParser) Input() string {
	return p.input
}

// Parse converts a chord sequence using the default start octave
func Parse(input string) ([]models.MIDIChord, error) {
	return ParseWithOctave(input, DefaultStartOctave)
}

// ParseWithOctave converts every <...> group of input into a MIDIChord.
// Unmarked pitches resolve to startOctave. The first invalid pitch aborts the
// parse and no chords are returned.
func ParseWithOctave(input string, startOctave int) ([]models.MIDIChord, error) {
	groups := ParseChords(input)
	chords := make([]models.MIDIChord, 0, len(groups))

	for _, group := range groups {
		chord, err := ParseChord(group, startOctave)
		if err != nil {
			return nil, err
		}
		chords = append(chords, chord)
	}

	return chords, nil
}

// ParseChords returns the contents of each <...> group in order. Anything
// outside the brackets, such as durations, is ignored.
func ParseChords(input string) []string {
	matches := chordPattern.FindAllStringSubmatch(strings.TrimSpace(input), -1)
	chords := make([]string, 0, len(matches))
	for _, m := range matches {
		chords = append(chords, m[1])
	}
	return chords
}

// ParseChord resolves the pitch entries of a single chord (the text between
// the brackets) into visible and hidden MIDI notes.
func ParseChord(chord string, startOctave int) (models.MIDIChord, error) {
	chord = normalizeChord(chord)

	midiChord := models.MIDIChord{
		Visible: make([]int, 0),
		Hidden:  make([]int, 0),
	}

	for _, entry := range strings.Fields(chord) {
		pitch, hidden, err := parsePitch(entry, chord, startOctave)
		if err != nil {
			return models.MIDIChord{}, err
		}
		if hidden {
			midiChord.Hidden = append(midiChord.Hidden, pitch)
		} else {
			midiChord.Visible = append(midiChord.Visible, pitch)
		}
	}

	return midiChord, nil
}

// normalizeChord turns \xNote into the hidden marker and lower-cases the chord
func normalizeChord(chord string) string {
	chord = hiddenNotePattern.ReplaceAllString(chord, string(hiddenMarker))
	return strings.TrimSpace(strings.ToLower(chord))
}

// parsePitch resolves one pitch entry such as "bf'" or "xc,,".
func parsePitch(entry, chord string, startOctave int) (int, bool, error) {
	tokens := []rune(entry)

	hidden := false
	if len(tokens) > 0 && tokens[0] == hiddenMarker {
		hidden = true
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return 0, false, &ParseError{Kind: MissingNoteName, Pitch: entry, Chord: chord}
	}
	base, ok := noteOffset(tokens[0])
	if !ok {
		return 0, false, &ParseError{Kind: MissingNoteName, Pitch: entry, Chord: chord}
	}

	octave := startOctave
	octaveChange := 0
	alteration := 0
	var unrecognized strings.Builder

	for _, r := range tokens[1:] {
		switch {
		case r == octaveUp:
			octaveChange++
		case r == octaveDown:
			octaveChange--
		case r >= '0' && r <= '9':
			// an explicit octave discards the marks seen before it
			octave = int(r - '0')
			octaveChange = 0
		case r == sharp:
			alteration++
		case r == flat:
			alteration--
		default:
			unrecognized.WriteRune(r)
		}
	}

	if unrecognized.Len() > 0 {
		return 0, false, &ParseError{
			Kind:    UnrecognizedSymbol,
			Pitch:   entry,
			Chord:   chord,
			Symbols: unrecognized.String(),
		}
	}

	octave += octaveChange
	return octave*12 + base + alteration, hidden, nil
}

// noteOffset maps a pitch name to its semitone offset from c
func noteOffset(name rune) (int, bool) {
	switch name {
	case 'c':
		return 0, true
	case 'd':
		return 2, true
	case 'e':
		return 4, true
	case 'f':
		return 5, true
	case 'g':
		return 7, true
	case 'a':
		return 9, true
	case 'b':
		return 11, true
	}
	return 0, false
}
