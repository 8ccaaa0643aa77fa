// Package commands implements the signbridge CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/signbridge/internal/app"
	"github.com/ekisa-team/signbridge/internal/config"
	"github.com/ekisa-team/signbridge/internal/env"
	"github.com/ekisa-team/signbridge/internal/logger"
	"github.com/ekisa-team/signbridge/internal/xfs"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

type rootOptions struct {
	configPath string
	schemaPath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "signbridge",
		Short:        "Resolve sign tokens to video, SiGML or fingerspelling and stitch sequences",
		SilenceUsage: true,
		Long: `Signbridge turns a sequence of sign tokens into something a viewer can watch:
recorded videos where the library has them, SiGML avatar markup where the
lexicon has a gesture, and fingerspelling otherwise.`,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", filepath.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "Path to schema file (defaults to the built-in schema)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newSequenceCmd(opts),
		newMarkupCmd(opts),
		newComposeCmd(opts),
		newRefreshCmd(opts),
		newEvictCmd(opts),
		newStatsCmd(opts),
		newLexiconCmd(opts),
		newSeedCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the config file, falling back to defaults when it does not
// exist, and installs the process logger.
func (o *rootOptions) loadConfig(w io.Writer) (*config.Config, error) {
	var cfg *config.Config
	if xfs.Exists(o.configPath) {
		var err error
		cfg, err = config.LoadAndValidate(o.configPath, o.schemaPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	slog.SetDefault(logger.New(env.FromEnv(),
		logger.WithLevel(lvl),
		logger.WithLogToFile(cfg.Log.ToFile),
		logger.WithLogFile(cfg.Log.File),
		logger.WithOutput(w),
	))
	return cfg, nil
}

// newApp loads the config and builds the application without metrics.
func (o *rootOptions) newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg, nil)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func emptyAsNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
