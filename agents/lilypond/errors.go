package lilypond

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a pitch entry could not be parsed
type ErrorKind int

const (
	// MissingNoteName means the entry does not start with a pitch name a-g
	MissingNoteName ErrorKind = iota + 1
	// UnrecognizedSymbol means something other than ' , s f or a digit
	// follows the pitch name
	UnrecognizedSymbol
)

func (k ErrorKind) String() string {
	switch k {
	case MissingNoteName:
		return "MissingNoteName"
	case UnrecognizedSymbol:
		return "UnrecognizedSymbol"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrMissingNoteName    = errors.New("missing or invalid note name")
	ErrUnrecognizedSymbol = errors.New("unrecognized symbols")
)

// ParseError reports the pitch entry that stopped a parse
type ParseError struct {
	Kind ErrorKind
	// Pitch is the offending entry as written (after normalisation)
	Pitch string
	// Chord is the normalised chord the entry belongs to
	Chord string
	// Symbols holds the invalid characters for UnrecognizedSymbol
	Symbols string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnrecognizedSymbol:
		return fmt.Sprintf("Pitch entry [%s] in chord [%s] contains unrecognized symbols: %s", e.Pitch, e.Chord, e.Symbols)
	default:
		return fmt.Sprintf("Pitch [%s] in chord [%s] is invalid: missing or invalid note name", e.Pitch, e.Chord)
	}
}

// Unwrap lets callers match a kind with errors.Is
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case MissingNoteName:
		return ErrMissingNoteName
	case UnrecognizedSymbol:
		return ErrUnrecognizedSymbol
	}
	return nil
}
