package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/Harvard-ATG/HarmonyLab/prompt"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "harmony-lab",
		Short: "Harmony Lab chord notation tools",
		Long: "Parse LilyPond chord notation into MIDI note numbers, validate exercise\n" +
			"definitions and render them as MIDI files or audio previews.\n\n" +
			prompt.NewNotationReferenceBuilder(cfg.StartOctave).Summary(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newParseCmd(cfg),
		newValidateCmd(cfg),
		newExerciseCmd(cfg),
		newMIDICmd(cfg),
		newWAVCmd(cfg),
		newNotationCmd(cfg),
	)
	return rootCmd
}

// readNotation takes the notation from the arguments, or stdin when there are none
func readNotation(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read notation: %w", err)
	}
	return string(data), nil
}

// readDocument reads the file named by the first argument, or stdin
func readDocument(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// renderFlags are shared by the commands that lay chords out in time
type renderFlags struct {
	octave   int
	tempo    float64
	beats    float64
	velocity int
	hidden   bool
	out      string
}

func (f *renderFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().IntVar(&f.octave, "octave", cfg.StartOctave, "octave of unmarked pitch names")
	cmd.Flags().Float64Var(&f.tempo, "tempo", cfg.TempoBPM, "tempo in beats per minute")
	cmd.Flags().Float64Var(&f.beats, "beats", cfg.BeatsPerChord, "beats per chord")
	cmd.Flags().IntVar(&f.velocity, "velocity", cfg.Velocity, "note velocity (1-127)")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "also sound hidden notes")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
}

// apply returns a copy of cfg with the flag values in effect
func (f *renderFlags) apply(cfg *config.Config) *config.Config {
	c := *cfg
	c.StartOctave = f.octave
	c.TempoBPM = f.tempo
	c.BeatsPerChord = f.beats
	c.Velocity = f.velocity
	return &c
}
