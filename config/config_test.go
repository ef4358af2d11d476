package config

import (
	"testing"

	"github.com/Harvard-ATG/HarmonyLab/agents/exercise"
	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "SENTRY_DSN", "HARMONY_START_OCTAVE", "HARMONY_EXERCISE_TYPE",
		"HARMONY_TEMPO_BPM", "HARMONY_BEATS_PER_CHORD", "HARMONY_VELOCITY", "HARMONY_SAMPLE_RATE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.SentryDSN)
	assert.Equal(t, lilypond.DefaultStartOctave, cfg.StartOctave)
	assert.Equal(t, exercise.DefaultType, cfg.ExerciseType)
	assert.Equal(t, 90.0, cfg.TempoBPM)
	assert.Equal(t, 4.0, cfg.BeatsPerChord)
	assert.Equal(t, 100, cfg.Velocity)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HARMONY_START_OCTAVE", "3")
	t.Setenv("HARMONY_EXERCISE_TYPE", "analytical")
	t.Setenv("HARMONY_TEMPO_BPM", "120")
	t.Setenv("HARMONY_SAMPLE_RATE", "22050")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.StartOctave)
	assert.Equal(t, "analytical", cfg.ExerciseType)
	assert.Equal(t, 120.0, cfg.TempoBPM)
	assert.Equal(t, 22050, cfg.SampleRate)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("HARMONY_START_OCTAVE", "four")
	t.Setenv("HARMONY_TEMPO_BPM", "-10")
	t.Setenv("HARMONY_BEATS_PER_CHORD", "abc")

	cfg := Load()
	assert.Equal(t, DefaultStartOctave, cfg.StartOctave)
	assert.Equal(t, DefaultTempoBPM, cfg.TempoBPM)
	assert.Equal(t, DefaultBeatsPerChord, cfg.BeatsPerChord)
}
