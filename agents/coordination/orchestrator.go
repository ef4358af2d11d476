package coordination

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Harvard-ATG/HarmonyLab/agents/exercise"
	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/agents/render"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/Harvard-ATG/HarmonyLab/logger"
	"github.com/Harvard-ATG/HarmonyLab/metrics"
	"github.com/Harvard-ATG/HarmonyLab/models"
	"github.com/google/uuid"
)

const (
	FormatMIDI = "midi"
	FormatWAV  = "wav"
)

// Orchestrator turns one exercise document into a processed definition and,
// on request, MIDI and WAV renderings. Renderers run in parallel.
type Orchestrator struct {
	cfg     *config.Config
	metrics *metrics.SentryMetrics
}

// Request describes one build
type Request struct {
	Document      []byte // exercise definition JSON
	RenderMIDI    bool
	RenderWAV     bool
	IncludeHidden bool // also sound hidden notes
}

// Result holds everything produced for a request
type Result struct {
	Output     models.ExerciseOutput
	Definition *exercise.Definition
	MIDI       []byte
	WAV        []byte
}

// ValidationError is returned when the document parses as JSON but the
// exercise it describes is invalid
type ValidationError struct {
	RunID    string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid exercise definition: %s", strings.Join(e.Messages, "; "))
}

// ArtifactCallback is called for each rendering as soon as it is ready
type ArtifactCallback func(format string, data []byte) error

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithMetrics replaces the default Sentry metrics client
func WithMetrics(m *metrics.SentryMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates a new orchestrator instance
func NewOrchestrator(cfg *config.Config, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = config.Load()
	}
	o := &Orchestrator{
		cfg:     cfg,
		metrics: metrics.NewSentryMetrics(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// IsInputError reports whether err was caused by the submitted notation or
// document rather than by a failure of the pipeline itself
func IsInputError(err error) bool {
	var invalid *ValidationError
	var parseErr *lilypond.ParseError
	return errors.As(err, &invalid) ||
		errors.As(err, &parseErr) ||
		errors.Is(err, exercise.ErrInvalidDocument) ||
		errors.Is(err, render.ErrPitchOutOfRange)
}

// Build runs the pipeline and returns the collected outputs
func (o *Orchestrator) Build(ctx context.Context, req Request) (*Result, error) {
	return o.BuildStream(ctx, req, nil)
}

// BuildStream is Build that also hands each rendering to callback as it
// completes. The callback is never called concurrently.
func (o *Orchestrator) BuildStream(ctx context.Context, req Request, callback ArtifactCallback) (*Result, error) {
	runID := uuid.New().String()
	startTime := time.Now()

	result, err := o.build(ctx, runID, req, callback)
	o.metrics.RecordBuildDuration(ctx, time.Since(startTime), err == nil)
	if err != nil {
		if IsInputError(err) {
			logger.Warn("Exercise rejected", logger.Fields{"run_id": runID, "error": err.Error()})
		} else {
			logger.Error("Exercise build failed", err, logger.Fields{"run_id": runID, "stage": "build"})
		}
		return nil, err
	}

	logger.Info("Exercise built", logger.Fields{
		"run_id":    runID,
		"chords":    len(result.Output.Chords),
		"artifacts": len(result.Output.Artifacts),
		"duration":  time.Since(startTime).Seconds(),
	})
	return result, nil
}

func (o *Orchestrator) build(ctx context.Context, runID string, req Request, callback ArtifactCallback) (*Result, error) {
	// Step 1: Process the definition
	parseStart := time.Now()
	def, err := exercise.NewDefinition(req.Document,
		exercise.WithDefaultType(o.cfg.ExerciseType),
		exercise.WithStartOctave(o.cfg.StartOctave),
	)
	if err != nil {
		o.metrics.RecordParse(ctx, 0, time.Since(parseStart), false)
		return nil, err
	}
	o.metrics.RecordParse(ctx, len(def.Chords()), time.Since(parseStart), def.IsValid())
	if !def.IsValid() {
		logger.Warn("Exercise definition rejected", logger.Fields{"run_id": runID, "errors": len(def.Errors())})
		return nil, &ValidationError{RunID: runID, Messages: def.Errors()}
	}

	result := &Result{
		Definition: def,
		Output: models.ExerciseOutput{
			RunID:      runID,
			Type:       def.Type(),
			Chords:     def.Chords(),
			Definition: def.AsJSON(),
		},
	}
	if !req.RenderMIDI && !req.RenderWAV {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := lilypond.ChordsToNoteEvents(def.Chords(), lilypond.NoteEventOptions{
		BeatsPerChord: o.cfg.BeatsPerChord,
		Velocity:      o.cfg.Velocity,
		IncludeHidden: req.IncludeHidden,
	})
	logger.Debug("Note events ready", logger.Fields{"run_id": runID, "events": len(events), "beats": lilypond.TotalBeats(events)})

	// Step 2: Launch the requested renderers in parallel
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		midiErr     error
		wavErr      error
		callbackErr error
	)

	emit := func(format string, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		switch format {
		case FormatMIDI:
			result.MIDI = data
		case FormatWAV:
			result.WAV = data
		}
		if callback != nil && callbackErr == nil {
			callbackErr = callback(format, data)
		}
	}

	if req.RenderMIDI {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := o.renderMIDI(ctx, events)
			if err != nil {
				midiErr = fmt.Errorf("midi render: %w", err)
				return
			}
			emit(FormatMIDI, data)
		}()
	}

	if req.RenderWAV {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := o.renderWAV(ctx, events)
			if err != nil {
				wavErr = fmt.Errorf("wav render: %w", err)
				return
			}
			emit(FormatWAV, data)
		}()
	}

	wg.Wait()

	// Step 3: Any failure fails the build, no partial outputs
	if midiErr != nil {
		return nil, midiErr
	}
	if wavErr != nil {
		return nil, wavErr
	}
	if callbackErr != nil {
		return nil, fmt.Errorf("artifact callback: %w", callbackErr)
	}

	if result.MIDI != nil {
		result.Output.Artifacts = append(result.Output.Artifacts, models.ArtifactStats{Format: FormatMIDI, Bytes: len(result.MIDI)})
	}
	if result.WAV != nil {
		result.Output.Artifacts = append(result.Output.Artifacts, models.ArtifactStats{Format: FormatWAV, Bytes: len(result.WAV)})
	}
	return result, nil
}

func (o *Orchestrator) renderMIDI(ctx context.Context, events []models.NoteEvent) ([]byte, error) {
	start := time.Now()
	var buf bytes.Buffer
	_, err := render.WriteMIDI(&buf, events, render.MIDIOptions{
		TempoBPM:  o.cfg.TempoBPM,
		TrackName: "Harmony Lab Exercise",
	})
	o.metrics.RecordRender(ctx, FormatMIDI, buf.Len(), time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderWAV goes through a temporary file since the encoder needs to seek
func (o *Orchestrator) renderWAV(ctx context.Context, events []models.NoteEvent) ([]byte, error) {
	start := time.Now()
	data, err := func() ([]byte, error) {
		f, err := os.CreateTemp("", "harmony-lab-*.wav")
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		defer f.Close()

		err = render.WriteWAV(f, events, render.WAVOptions{
			SampleRate: o.cfg.SampleRate,
			TempoBPM:   o.cfg.TempoBPM,
		})
		if err != nil {
			return nil, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return io.ReadAll(f)
	}()
	o.metrics.RecordRender(ctx, FormatWAV, len(data), time.Since(start), err == nil)
	return data, err
}
