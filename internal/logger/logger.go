// Package logger provides configured zerolog loggers.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger on stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, serviceName string) zerolog.Logger {
	installStackMarshaler()
	return zerolog.New(w).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// installStackMarshaler makes .Stack() events carry a stack even for
// errors that were not created through pkg/errors.
func installStackMarshaler() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

// InitConsole points the global logger at a plain-text console writer on
// stderr, the format used by the CLI.
func InitConsole(level zerolog.Level) {
	installStackMarshaler()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
	zerolog.SetGlobalLevel(level)
}

// ParseLevel maps debug|info|warn|error (any case) to a zerolog level,
// defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
