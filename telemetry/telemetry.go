// Package telemetry wraps a structured logger behind the small interface the
// rest of Torc depends on, the same "inject a collaborator, don't import a
// concrete package everywhere" shape the teacher uses for hal.Run's
// i2cFactory/pinFactory parameters. The concrete implementation is backed by
// github.com/rs/zerolog, grounded on the ecosystem pattern
// joeycumines-go-utilpkg/logiface-zerolog shows for wrapping zerolog behind
// a narrow logging interface.
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the leveled, printf-style logging surface every graph component
// depends on. Nothing in torc/graph, torc/controls, torc/inputs or
// torc/outputs imports zerolog directly; they all take a Logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Error logs an already-formatted message, for call sites passing along
	// an *errcode.E whose .Error() string needs no further formatting.
	Error(msg string)
	// With returns a child Logger that tags every subsequent line with
	// field=value, for per-device log context ("device", uniqueID).
	With(field, value string) Logger
}

type zlogger struct {
	z zerolog.Logger
}

// New returns a Logger writing level-colored console output to w (typically
// os.Stderr), at minLevel and above.
func New(w io.Writer, minLevel zerolog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	z := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(minLevel).
		With().Timestamp().Logger()
	return &zlogger{z: z}
}

func (l *zlogger) Debugf(format string, args ...any) { l.z.Debug().Msgf(format, args...) }
func (l *zlogger) Infof(format string, args ...any)  { l.z.Info().Msgf(format, args...) }
func (l *zlogger) Warnf(format string, args ...any)  { l.z.Warn().Msgf(format, args...) }
func (l *zlogger) Errorf(format string, args ...any) { l.z.Error().Msgf(format, args...) }

func (l *zlogger) With(field, value string) Logger {
	return &zlogger{z: l.z.With().Str(field, value).Logger()}
}

// Error mirrors the standard library error interface's single-string
// reporting shape, the method Engine.Build uses to log already-formatted
// *errcode.E values without a format string of its own.
func (l *zlogger) Error(msg string) { l.z.Error().Msg(msg) }
