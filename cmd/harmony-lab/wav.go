package main

import (
	"fmt"
	"os"

	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/agents/render"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/spf13/cobra"
)

func newWAVCmd(cfg *config.Config) *cobra.Command {
	var (
		flags      renderFlags
		sampleRate int
	)

	cmd := &cobra.Command{
		Use:     "wav [notation]",
		Short:   "Render chord notation as a WAV audio preview",
		Example: `  harmony-lab wav -o cadence.wav "<g b d' f'>1 <c' e' g' c''>1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.out == "" {
				return fmt.Errorf("--out is required for WAV output")
			}
			notation, err := readNotation(cmd, args)
			if err != nil {
				return err
			}

			c := flags.apply(cfg)
			chords, err := lilypond.ParseWithOctave(notation, c.StartOctave)
			if err != nil {
				return err
			}
			events := lilypond.ChordsToNoteEvents(chords, lilypond.NoteEventOptions{
				BeatsPerChord: c.BeatsPerChord,
				Velocity:      c.Velocity,
				IncludeHidden: flags.hidden,
			})

			f, err := os.Create(flags.out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", flags.out, err)
			}
			if err := render.WriteWAV(f, events, render.WAVOptions{
				SampleRate: sampleRate,
				TempoBPM:   c.TempoBPM,
			}); err != nil {
				f.Close()
				os.Remove(flags.out)
				return err
			}
			return f.Close()
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().IntVar(&sampleRate, "sample-rate", cfg.SampleRate, "samples per second")
	return cmd
}
