package main

import (
	"fmt"

	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/Harvard-ATG/HarmonyLab/prompt"
	"github.com/spf13/cobra"
)

func newNotationCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "notation",
		Short: "Show the chord notation reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), prompt.NewNotationReferenceBuilder(cfg.StartOctave).Build())
			return err
		},
	}
}
