package main

import (
	"encoding/json"
	"fmt"

	"github.com/Harvard-ATG/HarmonyLab/agents/lilypond"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

func newParseCmd(cfg *config.Config) *cobra.Command {
	var octave int

	cmd := &cobra.Command{
		Use:   "parse [notation]",
		Short: "Parse chord notation into MIDI note numbers",
		Long: `Parse LilyPond chord notation and print the visible and hidden MIDI
note numbers of every chord as JSON. The notation is read from the
arguments, or from stdin when none are given.`,
		Example: `  harmony-lab parse "<c e g>1 <f a c'>1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notation, err := readNotation(cmd, args)
			if err != nil {
				return err
			}

			chords, err := lilypond.ParseWithOctave(notation, octave)
			if err != nil {
				return err
			}

			data, err := json.Marshal(chords)
			if err != nil {
				return fmt.Errorf("failed to encode chords: %w", err)
			}
			return writeOutput(cmd, "", pretty.Pretty(data))
		},
	}

	cmd.Flags().IntVar(&octave, "octave", cfg.StartOctave, "octave of unmarked pitch names")
	return cmd
}
