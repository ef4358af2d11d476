package main

import (
	"bytes"

	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/agents/render"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/spf13/cobra"
)

func newMIDICmd(cfg *config.Config) *cobra.Command {
	var (
		flags   renderFlags
		channel uint8
	)

	cmd := &cobra.Command{
		Use:     "midi [notation]",
		Short:   "Write chord notation as a standard MIDI file",
		Example: `  harmony-lab midi -o cadence.mid "<g b d' f'>1 <c' e' g' c''>1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var buf bytes.Buffer
			if _, err := render.WriteMIDI(&buf, events, render.MIDIOptions{
				TempoBPM: c.TempoBPM,
				Channel:  channel,
			}); err != nil {
				return err
			}
			return writeOutput(cmd, flags.out, buf.Bytes())
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().Uint8Var(&channel, "channel", 0, "MIDI channel (0-15)")
	return cmd
}
