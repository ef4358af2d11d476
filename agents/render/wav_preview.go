package render

import (
	"fmt"
	"io"
	"math"

	"github.com/Harvard-ATG/HarmonyLab/models"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	defaultSampleRate = 44100
	defaultAmplitude  = 0.8
	wavBitDepth       = 16
	wavChannels       = 1
	wavFormatPCM      = 1

	attackSeconds  = 0.01
	releaseSeconds = 0.08
)

// WAVOptions controls the audio preview
type WAVOptions struct {
	SampleRate int     // default: 44100
	TempoBPM   float64 // default: 90
	Amplitude  float64 // peak level of the mix, 0-1 (default: 0.8)
}

// Synthesize renders events to 16-bit mono samples. Each note is a sine wave
// with a short linear attack and release; the mix is normalised to the
// requested peak. Without events the result is one beat of silence.
func Synthesize(events []models.NoteEvent, opts WAVOptions) ([]int, error) {
	opts = withWAVDefaults(opts)

	secondsPerBeat := 60.0 / opts.TempoBPM
	rate := float64(opts.SampleRate)

	var totalBeats float64
	for _, e := range events {
		if err := checkPitch(e.MidiNoteNumber); err != nil {
			return nil, err
		}
		totalBeats = math.Max(totalBeats, e.StartBeats+e.DurationBeats)
	}
	if totalBeats <= 0 {
		totalBeats = 1
	}

	mix := make([]float64, int(math.Round(totalBeats*secondsPerBeat*rate)))
	for _, e := range events {
		freq := PitchToFrequency(e.MidiNoteNumber)
		gain := float64(clampVelocity(e.Velocity)) / 127
		start := int(math.Round(e.StartBeats * secondsPerBeat * rate))
		end := int(math.Round((e.StartBeats + e.DurationBeats) * secondsPerBeat * rate))
		if start < 0 {
			start = 0
		}
		if end > len(mix) {
			end = len(mix)
		}

		length := end - start
		for i := 0; i < length; i++ {
			t := float64(i) / rate
			mix[start+i] += gain * envelope(i, length, rate) * math.Sin(2*math.Pi*freq*t)
		}
	}

	var peak float64
	for _, v := range mix {
		peak = math.Max(peak, math.Abs(v))
	}
	scale := 0.0
	if peak > 0 {
		scale = opts.Amplitude * math.MaxInt16 / peak
	}

	samples := make([]int, len(mix))
	for i, v := range mix {
		samples[i] = int(math.Round(v * scale))
	}
	return samples, nil
}

// WriteWAV synthesizes events and encodes them as a PCM WAV file.
// The encoder seeks back to patch the header, hence io.WriteSeeker.
func WriteWAV(ws io.WriteSeeker, events []models.NoteEvent, opts WAVOptions) error {
	opts = withWAVDefaults(opts)

	samples, err := Synthesize(events, opts)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: wavChannels,
			SampleRate:  opts.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: wavBitDepth,
	}

	encoder := wav.NewEncoder(ws, opts.SampleRate, wavBitDepth, wavChannels, wavFormatPCM)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %w", err)
	}
	return nil
}

// PitchToFrequency converts a MIDI note number to Hz (A = 69 = 440 Hz)
func PitchToFrequency(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

// envelope is the gain of sample i of a note lasting length samples
func envelope(i, length int, rate float64) float64 {
	attack := int(attackSeconds * rate)
	release := int(releaseSeconds * rate)
	if attack+release > length {
		attack = length / 4
		release = length / 4
	}

	switch {
	case attack > 0 && i < attack:
		return float64(i) / float64(attack)
	case release > 0 && i >= length-release:
		return float64(length-i) / float64(release)
	default:
		return 1
	}
}

func withWAVDefaults(opts WAVOptions) WAVOptions {
	if opts.SampleRate <= 0 {
		opts.SampleRate = defaultSampleRate
	}
	if opts.TempoBPM <= 0 {
		opts.TempoBPM = defaultTempoBPM
	}
	if opts.Amplitude <= 0 || opts.Amplitude > 1 {
		opts.Amplitude = defaultAmplitude
	}
	return opts
}
