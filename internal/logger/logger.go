// Package logger builds the process-wide slog handler.
//
// Development logs are colourised with tint; production logs are JSON. Either
// flavour can additionally be teed into a size-rotated file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/signbridge/internal/env"
)

type options struct {
	level     slog.Level
	logToFile bool
	logFile   string
	output    io.Writer
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithLogToFile enables writing to a rotated log file in addition to stderr.
func WithLogToFile(enabled bool) Option {
	return func(o *options) { o.logToFile = enabled }
}

// WithLogFile sets the rotated log file path.
func WithLogFile(path string) Option {
	return func(o *options) { o.logFile = path }
}

// WithOutput replaces stderr as the primary sink.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// New creates a logger for the given environment.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := options{
		level:   slog.LevelInfo,
		logFile: "logs/signbridge.log",
		output:  os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	w := o.output
	if o.logToFile && o.logFile != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	var handler slog.Handler
	if environment.IsProduction() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: o.level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      o.level,
			TimeFormat: time.TimeOnly,
			NoColor:    o.logToFile,
		})
	}

	return slog.New(handler)
}

// ParseLevel converts a config string into a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
