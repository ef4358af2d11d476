package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harvard-ATG/HarmonyLab/agents/coordination"
	"github.com/Harvard-ATG/HarmonyLab/agents/exercise"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/Harvard-ATG/HarmonyLab/metrics"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var errInvalidExercise = errors.New("exercise is invalid")

func newValidateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate an exercise definition",
		Long: `Check an exercise definition JSON document and print the result in the
form the exercise editor expects: a status, a message, the processed
exercise and any errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}

			result, err := exercise.Validate(doc,
				exercise.WithDefaultType(cfg.ExerciseType),
				exercise.WithStartOctave(cfg.StartOctave),
			)
			if err != nil {
				return err
			}

			data, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			if err := writeOutput(cmd, "", pretty.Pretty(data)); err != nil {
				return err
			}
			if result.Status != exercise.StatusSuccess {
				return errInvalidExercise
			}
			return nil
		},
	}
}

func newExerciseCmd(cfg *config.Config) *cobra.Command {
	var (
		flags    renderFlags
		midiPath string
		wavPath  string
	)

	cmd := &cobra.Command{
		Use:   "exercise [file]",
		Short: "Build an exercise and optionally render it",
		Long: `Process an exercise definition, print the resulting exercise as JSON and,
with --midi or --wav, write its chords as a MIDI file or an audio preview.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}

			var opts []coordination.Option
			if cfg.SentryDSN == "" {
				opts = append(opts, coordination.WithMetrics(metrics.NewNoopMetrics()))
			}
			orchestrator := coordination.NewOrchestrator(flags.apply(cfg), opts...)
			result, err := orchestrator.Build(cmd.Context(), coordination.Request{
				Document:      doc,
				RenderMIDI:    midiPath != "",
				RenderWAV:     wavPath != "",
				IncludeHidden: flags.hidden,
			})
			if err != nil {
				return err
			}

			if midiPath != "" {
				if err := writeOutput(cmd, midiPath, result.MIDI); err != nil {
					return err
				}
			}
			if wavPath != "" {
				if err := writeOutput(cmd, wavPath, result.WAV); err != nil {
					return err
				}
			}

			data, err := json.Marshal(result.Output)
			if err != nil {
				return fmt.Errorf("failed to encode exercise: %w", err)
			}
			return writeOutput(cmd, flags.out, pretty.Pretty(data))
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&midiPath, "midi", "", "write a MIDI file to this path")
	cmd.Flags().StringVar(&wavPath, "wav", "", "write a WAV preview to this path")
	return cmd
}
