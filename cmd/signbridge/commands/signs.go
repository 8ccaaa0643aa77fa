package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/resolver"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve TOKEN...",
		Short: "Resolve tokens to video, markup or fingerspelling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			descs := a.Signs.Resolve(cmd.Context(), args)
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"signs":   descs,
				"summary": resolver.Summarize(descs),
				"total":   len(descs),
			})
		},
	}
}

func newSequenceCmd(root *rootOptions) *cobra.Command {
	var opts composer.Options
	var compose bool

	cmd := &cobra.Command{
		Use:   "sequence TOKEN...",
		Short: "Resolve tokens and stitch their videos when all have one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			seq, err := a.Signs.Sequence(cmd.Context(), args, compose, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), seq)
		},
	}

	cmd.Flags().BoolVar(&compose, "compose", true, "Stitch the clips into one video")
	cmd.Flags().BoolVar(&opts.Crossfade, "crossfade", false, "Join clips with a short crossfade")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Ignore a cached composition")
	return cmd
}

func newMarkupCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "markup TOKEN...",
		Short: "Print the SiGML document for tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Signs.Markup(args))
			return err
		},
	}
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	var opts composer.Options

	cmd := &cobra.Command{
		Use:   "compose PATH...",
		Short: "Stitch clip files into one sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			res, err := a.Signs.Compose(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&opts.Crossfade, "crossfade", false, "Join clips with a short crossfade")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Ignore a cached composition")
	return cmd
}

func newRefreshCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rescan the video library and rebuild its index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			cov, err := a.Signs.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cov)
		},
	}
}

func newEvictCmd(root *rootOptions) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "evict",
		Short: "Delete composed sequences older than --max-age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			if maxAge <= 0 {
				maxAge = a.Config().Composer.MaxAge
			}
			n, err := a.Signs.Evict(maxAge)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sequence(s) older than %s\n", n, maxAge)
			return err
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Age threshold (defaults to the configured max age)")
	return cmd
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print library coverage and resolution statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.newApp(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.Signs.Coverage())
		},
	}
}
