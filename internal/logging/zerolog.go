// Package logging adapts zerolog to the opencorp.Logger interface.
package logging

import (
	"io"
	"time"

	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/rs/zerolog"
)

type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger.
func NewZerologLogger(log zerolog.Logger) opencorp.Logger {
	return zerologLogger{log: log}
}

// NewConsoleLogger writes human-readable lines to w. Debug entries are only
// emitted when verbose is set.
func NewConsoleLogger(w io.Writer, verbose bool) opencorp.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return NewZerologLogger(log)
}

func (l zerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.emit(zerolog.DebugLevel, msg, fields)
}

func (l zerologLogger) Info(msg string, fields map[string]interface{}) {
	l.emit(zerolog.InfoLevel, msg, fields)
}

func (l zerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.emit(zerolog.WarnLevel, msg, fields)
}

func (l zerologLogger) Error(msg string, fields map[string]interface{}) {
	l.emit(zerolog.ErrorLevel, msg, fields)
}

func (l zerologLogger) emit(level zerolog.Level, msg string, fields map[string]interface{}) {
	event := l.log.WithLevel(level)
	if len(fields) > 0 {
		event = event.Fields(fields)
	}

	event.Msg(msg)
}

var _ opencorp.Logger = zerologLogger{}
