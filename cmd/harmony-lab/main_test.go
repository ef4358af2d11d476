package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Harvard-ATG/HarmonyLab/agents/exercise"
	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/agents/render"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		StartOctave:   config.DefaultStartOctave,
		ExerciseType:  config.DefaultExerciseType,
		TempoBPM:      config.DefaultTempoBPM,
		BeatsPerChord: config.DefaultBeatsPerChord,
		Velocity:      config.DefaultVelocity,
		SampleRate:    8000,
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func ints(r gjson.Result) []int64 {
	var values []int64
	for _, v := range r.Array() {
		values = append(values, v.Int())
	}
	return values
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "", "parse", "<c e g>1", "<c' \\xNote e'>1")
	require.NoError(t, err)

	chords := gjson.Parse(out)
	assert.Equal(t, int64(2), chords.Get("#").Int())
	assert.Equal(t, []int64{48, 52, 55}, ints(chords.Get("0.visible")))
	assert.Equal(t, []int64{64}, ints(chords.Get("1.hidden")))
}

func TestParseCommand_Stdin(t *testing.T) {
	out, err := execute(t, "<c>\n", "parse", "--octave", "5")
	require.NoError(t, err)
	assert.Equal(t, []int64{60}, ints(gjson.Parse(out).Get("0.visible")))
}

func TestParseCommand_Error(t *testing.T) {
	_, err := execute(t, "", "parse", "<c e h>")

	var parseErr *lilypond.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, lilypond.MissingNoteName, parseErr.Kind)
	assert.False(t, isUnexpected(err))
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, `{"lilypond_chords": "<c e g>"}`, "validate")
	require.NoError(t, err)
	assert.Equal(t, "success", gjson.Get(out, "status").String())

	out, err = execute(t, `{"lilypond_chords": "<c e h>"}`, "validate")
	assert.ErrorIs(t, err, errInvalidExercise)
	assert.Equal(t, "error", gjson.Get(out, "status").String())
	assert.False(t, isUnexpected(err))
}

func TestExerciseCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "exercise.json")
	midiPath := filepath.Join(dir, "exercise.mid")
	wavPath := filepath.Join(dir, "exercise.wav")
	require.NoError(t, os.WriteFile(docPath, []byte(`{"lilypond_chords": "<c e g>1 <c f a>1"}`), 0o644))

	out, err := execute(t, "", "exercise", docPath, "--midi", midiPath, "--wav", wavPath, "--tempo", "240")
	require.NoError(t, err)

	output := gjson.Parse(out)
	assert.NotEmpty(t, output.Get("run_id").String())
	assert.Equal(t, "matching", output.Get("type").String())
	assert.Equal(t, int64(2), output.Get("artifacts.#").Int())

	midiData, err := os.ReadFile(midiPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(midiData, []byte("MThd")))

	wavData, err := os.ReadFile(wavPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(wavData, []byte("RIFF")))
}

func TestMIDICommand(t *testing.T) {
	out, err := execute(t, "", "midi", "<c e g>1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "MThd"))

	_, err = execute(t, "", "midi", "--channel", "16", "<c e g>1")
	assert.Error(t, err)
	assert.True(t, isUnexpected(err))
}

func TestWAVCommand(t *testing.T) {
	_, err := execute(t, "", "wav", "<c e g>1")
	assert.Error(t, err, "--out is required")

	path := filepath.Join(t.TempDir(), "preview.wav")
	_, err = execute(t, "", "wav", "-o", path, "--beats", "1", "<c e g>1")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

func TestNotationCommand(t *testing.T) {
	out, err := execute(t, "", "notation")
	require.NoError(t, err)
	assert.Contains(t, out, "CHORD NOTATION")
}

func TestWAVCommand_FailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.wav")
	_, err := execute(t, "", "wav", "-o", path, "<c,,,,,>1")
	assert.ErrorIs(t, err, render.ErrPitchOutOfRange)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestIsUnexpected(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "invalid exercise", err: errInvalidExercise, expected: false},
		{name: "invalid document", err: exercise.ErrInvalidDocument, expected: false},
		{name: "pitch out of range", err: fmt.Errorf("wav render: %w", render.ErrPitchOutOfRange), expected: false},
		{name: "parse error", err: &lilypond.ParseError{Kind: lilypond.UnrecognizedSymbol}, expected: false},
		{name: "write failure", err: errors.New("failed to write out.mid"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isUnexpected(tt.err))
		})
	}
}
