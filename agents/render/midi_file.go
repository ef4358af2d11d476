package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/Harvard-ATG/HarmonyLab/models"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	defaultTempoBPM        = 90.0
	defaultTicksPerQuarter = 960
)

// ErrPitchOutOfRange is returned for notes that MIDI cannot represent
var ErrPitchOutOfRange = errors.New("pitch outside the MIDI range 0-127")

// MIDIOptions controls the standard MIDI file output
type MIDIOptions struct {
	TempoBPM        float64 // default: 90
	Channel         uint8   // 0-15
	TicksPerQuarter uint16  // default: 960
	TrackName       string
}

// noteMessage is a NoteOn or NoteOff at an absolute tick
type noteMessage struct {
	tick     uint32
	off      bool
	key      uint8
	velocity uint8
}

// BuildSMF lays out events (in quarter-note beats) as a single-track SMF
func BuildSMF(events []models.NoteEvent, opts MIDIOptions) (*smf.SMF, error) {
	tempo := opts.TempoBPM
	if tempo <= 0 {
		tempo = defaultTempoBPM
	}
	resolution := opts.TicksPerQuarter
	if resolution == 0 {
		resolution = defaultTicksPerQuarter
	}
	if opts.Channel > 15 {
		return nil, fmt.Errorf("invalid MIDI channel %d", opts.Channel)
	}
	clock := smf.MetricTicks(resolution)

	messages := make([]noteMessage, 0, len(events)*2)
	for _, e := range events {
		if err := checkPitch(e.MidiNoteNumber); err != nil {
			return nil, err
		}
		key := uint8(e.MidiNoteNumber)
		start := beatsToTicks(e.StartBeats, resolution)
		end := beatsToTicks(e.StartBeats+e.DurationBeats, resolution)
		messages = append(messages,
			noteMessage{tick: start, key: key, velocity: clampVelocity(e.Velocity)},
			noteMessage{tick: end, off: true, key: key},
		)
	}

	// NoteOffs sort before NoteOns on the same tick so repeated notes retrigger
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].tick != messages[j].tick {
			return messages[i].tick < messages[j].tick
		}
		return messages[i].off && !messages[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(tempo))
	if opts.TrackName != "" {
		track.Add(0, smf.MetaTrackSequenceName(opts.TrackName))
	}

	var last uint32
	for _, m := range messages {
		delta := m.tick - last
		if m.off {
			track.Add(delta, midi.NoteOff(opts.Channel, m.key))
		} else {
			track.Add(delta, midi.NoteOn(opts.Channel, m.key, m.velocity))
		}
		last = m.tick
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	return s, nil
}

// WriteMIDI writes events as a standard MIDI file
func WriteMIDI(w io.Writer, events []models.NoteEvent, opts MIDIOptions) (int64, error) {
	s, err := BuildSMF(events, opts)
	if err != nil {
		return 0, err
	}

	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return n, nil
}

func checkPitch(pitch int) error {
	if pitch < 0 || pitch > 127 {
		return fmt.Errorf("%w: %d", ErrPitchOutOfRange, pitch)
	}
	return nil
}

func beatsToTicks(beats float64, resolution uint16) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(math.Round(beats * float64(resolution)))
}

func clampVelocity(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
