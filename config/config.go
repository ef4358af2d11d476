package config

import (
	"os"
	"strconv"

	"github.com/Harvard-ATG/HarmonyLab/agents/exercise"
	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/logger"
)

const (
	DefaultStartOctave   = lilypond.DefaultStartOctave
	DefaultExerciseType  = exercise.DefaultType
	DefaultTempoBPM      = 90.0
	DefaultBeatsPerChord = 4.0
	DefaultVelocity      = 100
	DefaultSampleRate    = 44100
)

// Config contains configuration for Harmony Lab tools
type Config struct {
	// Environment
	Environment string
	SentryDSN   string // Sentry DSN for error tracking (optional)

	// Notation
	StartOctave  int    // Octave of unmarked pitch names
	ExerciseType string // Type given to definitions that do not set one

	// Rendering
	TempoBPM      float64
	BeatsPerChord float64
	Velocity      int
	SampleRate    int
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
		StartOctave:   getEnvInt("HARMONY_START_OCTAVE", DefaultStartOctave),
		ExerciseType:  getEnv("HARMONY_EXERCISE_TYPE", DefaultExerciseType),
		TempoBPM:      getEnvFloat("HARMONY_TEMPO_BPM", DefaultTempoBPM),
		BeatsPerChord: getEnvFloat("HARMONY_BEATS_PER_CHORD", DefaultBeatsPerChord),
		Velocity:      getEnvInt("HARMONY_VELOCITY", DefaultVelocity),
		SampleRate:    getEnvInt("HARMONY_SAMPLE_RATE", DefaultSampleRate),
	}
}

// IsProduction returns true when running with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Ignoring malformed integer setting", logger.Fields{"key": key, "value": value})
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		logger.Warn("Ignoring malformed number setting", logger.Fields{"key": key, "value": value})
		return defaultValue
	}
	return f
}
