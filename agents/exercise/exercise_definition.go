package exercise

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/logger"
	"github.com/Harvard-ATG/HarmonyLab/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	DefaultType = "matching"

	keyType           = "type"
	keyLilyPondChords = "lilypond_chords"
	keyChord          = "chord"
	keyGroupName      = "group_name"
)

// ErrInvalidDocument is returned when the input is not a JSON object
var ErrInvalidDocument = errors.New("exercise definition must be a JSON object")

// Definition describes an exercise problem so it can be presented to a
// student as the instructor intended. The document is kept as raw JSON so
// fields this package does not know about are preserved.
//
// When the document has a "lilypond_chords" string it is parsed and the
// resulting MIDI chords are stored under "chord".
type Definition struct {
	data   []byte
	chords []models.MIDIChord
	errors []string
}

// Option configures how a definition is processed
type Option func(*options)

type options struct {
	defaultType string
	startOctave int
}

// WithDefaultType sets the type given to documents without one
func WithDefaultType(exerciseType string) Option {
	return func(o *options) {
		if exerciseType != "" {
			o.defaultType = exerciseType
		}
	}
}

// WithStartOctave sets the octave of unmarked pitch names
func WithStartOctave(octave int) Option {
	return func(o *options) {
		o.startOctave = octave
	}
}

// NewDefinition processes an exercise document. Notation problems do not
// produce an error here; they make the definition invalid and are reported by
// Errors. An error is only returned when data is not a JSON object.
func NewDefinition(data []byte, opts ...Option) (*Definition, error) {
	o := options{
		defaultType: DefaultType,
		startOctave: lilypond.DefaultStartOctave,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrInvalidDocument
	}

	d := &Definition{
		data: append([]byte(nil), data...),
	}
	if err := d.processData(o); err != nil {
		return nil, err
	}
	return d, nil
}

// FromJSON is NewDefinition for a string document
func FromJSON(data string, opts ...Option) (*Definition, error) {
	return NewDefinition([]byte(data), opts...)
}

func (d *Definition) processData(o options) error {
	var err error

	if !gjson.GetBytes(d.data, keyType).Exists() {
		d.data, err = sjson.SetBytes(d.data, keyType, o.defaultType)
		if err != nil {
			return fmt.Errorf("failed to set exercise type: %w", err)
		}
	}

	notation := gjson.GetBytes(d.data, keyLilyPondChords)
	if notation.Exists() {
		return d.processNotation(notation, o.startOctave)
	}

	// chord data in another shape is kept as is; Chords is then empty
	if chord := gjson.GetBytes(d.data, keyChord); chord.Exists() {
		if err := json.Unmarshal([]byte(chord.Raw), &d.chords); err != nil {
			d.chords = nil
			logger.Warn("Chord data left undecoded", logger.Fields{"error": err.Error()})
		}
	}
	return nil
}

func (d *Definition) processNotation(notation gjson.Result, startOctave int) error {
	if notation.Type != gjson.String {
		d.errors = append(d.errors, "LilyPond chords must be given as a string")
		return nil
	}

	parser := lilypond.NewLilyPondParser(notation.Str, lilypond.WithStartOctave(startOctave))
	if !parser.IsValid() {
		d.errors = append(d.errors, parser.Errors()...)
		return nil
	}

	d.chords = parser.ToMIDI()
	raw, err := json.Marshal(d.chords)
	if err != nil {
		return fmt.Errorf("failed to encode chords: %w", err)
	}
	d.data, err = sjson.SetRawBytes(d.data, keyChord, raw)
	if err != nil {
		return fmt.Errorf("failed to set chords: %w", err)
	}
	return nil
}

// IsValid reports whether the definition can be used
func (d *Definition) IsValid() bool {
	return len(d.errors) == 0
}

// Errors returns the validation messages, suitable for showing to the author
func (d *Definition) Errors() []string {
	return d.errors
}

// Data returns the processed document
func (d *Definition) Data() []byte {
	return append([]byte(nil), d.data...)
}

// Type returns the exercise type
func (d *Definition) Type() string {
	return gjson.GetBytes(d.data, keyType).String()
}

// Chords returns the MIDI chords of the exercise
func (d *Definition) Chords() []models.MIDIChord {
	return d.chords
}

// Get returns a field of the document by gjson path
func (d *Definition) Get(path string) gjson.Result {
	return gjson.GetBytes(d.data, path)
}

// AsJSON returns the document with sorted keys, four-space indentation and
// one array element per line
func (d *Definition) AsJSON() []byte {
	return pretty.PrettyOptions(d.data, &pretty.Options{
		Width:    1,
		Indent:   "    ",
		SortKeys: true,
	})
}
