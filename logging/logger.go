// Package logging constructs the zerolog loggers the injection pipeline
// reports through.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type (
	//Config of logger construction.
	Config struct {
		//Level is a zerolog level name, default info.
		Level string
		//Pretty switches to the human console writer.
		Pretty bool
		//Output sink, default os.Stdout.
		Output io.Writer
	}
)

// DefaultConfig is the configuration the payload entry point runs with:
// console output at info, readable inside a host process log capture.
func DefaultConfig() Config {
	return Config{Level: "info", Pretty: true}
}

// New creates a logger with the given configuration. An unknown level name
// falls back to info.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(cfg.Level); err == nil && lv != zerolog.NoLevel {
		level = lv
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithComponent tags every event with the pipeline stage emitting it.
func NewWithComponent(cfg Config, component string) zerolog.Logger {
	return New(cfg).With().Str("component", component).Logger()
}
