package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup configures zerolog for the process.
func Setup(verbose bool) zerolog.Logger {
	return SetupWithWriter(verbose, os.Stderr)
}

// SetupWithWriter configures zerolog against an explicit writer.
func SetupWithWriter(verbose bool, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	return zerolog.New(writer).With().Timestamp().Logger().Level(level)
}
