package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/signbridge/internal/gesture"
)

func newLexiconCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect or extend the gesture lexicon",
	}
	cmd.AddCommand(newLexiconListCmd(root), newLexiconAddCmd(root))
	return cmd
}

func newLexiconListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lexicon signs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tHANDSHAPE\tLOCATION\tMOVEMENT\tDESCRIPTION")
			for _, e := range a.Signs.Lexicon() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Token, e.Sign.Handshape, e.Sign.Location, e.Sign.Movement, e.Sign.Description)
			}
			return tw.Flush()
		},
	}
}

func newLexiconAddCmd(root *rootOptions) *cobra.Command {
	var handshape, location, movement, description string

	cmd := &cobra.Command{
		Use:   "add TOKEN",
		Short: "Add or replace a lexicon sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			entry, err := a.Signs.AddSign(cmd.Context(), args[0], gesture.NewSign(handshape, location, movement, description))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}

	cmd.Flags().StringVar(&handshape, "handshape", string(gesture.DefaultHandshape), "Handshape name")
	cmd.Flags().StringVar(&location, "location", string(gesture.DefaultLocation), "Location name")
	cmd.Flags().StringVar(&movement, "movement", string(gesture.DefaultMovement), "Movement name")
	cmd.Flags().StringVar(&description, "description", "", "Human-readable gloss")
	return cmd
}
