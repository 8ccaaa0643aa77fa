package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/signbridge/internal/assets"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var (
		placeholders bool
		retries      int
		retryDelay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed [TOKEN...]",
		Short: "Download configured clips and render placeholders for the rest",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}

			seeder, err := a.Seeder(assets.WithRetry(retries, retryDelay))
			if err != nil {
				return err
			}

			plan := a.SeedPlan()
			if cmd.Flags().Changed("placeholders") {
				plan.Placeholders = placeholders
			}
			if len(args) > 0 {
				plan.Tokens = args
			}

			report, err := seeder.Seed(cmd.Context(), plan)
			if err != nil {
				return err
			}
			if _, err := a.Signs.Refresh(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&placeholders, "placeholders", false, "Render labelled placeholder clips for missing signs")
	cmd.Flags().IntVar(&retries, "retries", 3, "Download attempts per clip")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", 2*time.Second, "Delay between download attempts")
	return cmd
}
