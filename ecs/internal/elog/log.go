// Package elog is the core's logging seam: a package-level zerolog.Logger,
// an Init(Config) and component-scoped child loggers. Non-fatal
// diagnostics from the dependency builder, scheduler and command buffer
// go through here instead of being dropped on the floor or printed with
// the standard library logger.
package elog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-level logger. It defaults to a console writer on
// stderr so the core is usable without any setup; call Init to customize.
var Logger zerolog.Logger

func init() {
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// Config controls the package logger.
type Config struct {
	Level      zerolog.Level
	JSONOutput bool
	Output     io.Writer
}

// Init replaces the package logger.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(cfg.Level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{Out: output}).With().Timestamp().Logger()
	}
}

// WithComponent returns a child logger tagged with the emitting subsystem.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
