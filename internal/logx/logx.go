// Package logx is the modem's leveled logger. It replaces the
// teacher's dw_color_e/text_color_set/dw_printf triad (see
// src/textcolor.go) with structured fields, backed by
// github.com/charmbracelet/log rather than a hand-rolled color table.
package logx

import (
	"os"

	"github.com/charmbracelet/log"
)

// Level mirrors the four levels the control surface and SPEC_FULL.md
// §6 --log-level flag expose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a --log-level flag value to a Level, defaulting to
// LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger wraps a charmbracelet/log.Logger with the fields this modem's
// components attach: channel (tx/rx/ptt/device/beacon), state, offset.
type Logger struct {
	l *log.Logger
}

// New builds a Logger writing to stderr at the given level.
func New(level Level) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	l.SetLevel(toCharmLevel(level))
	return &Logger{l: l}
}

func toCharmLevel(lv Level) log.Level {
	switch lv {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// With returns a child logger carrying the given key/value pairs on
// every subsequent call, mirroring the fx25 code's per-call context
// (channel, ctag-equivalent) without threading strings through every
// call site.
func (lg *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{l: lg.l.With(keyvals...)}
}

func (lg *Logger) Debug(msg string, keyvals ...interface{}) { lg.l.Debug(msg, keyvals...) }
func (lg *Logger) Info(msg string, keyvals ...interface{})  { lg.l.Info(msg, keyvals...) }
func (lg *Logger) Warn(msg string, keyvals ...interface{})  { lg.l.Warn(msg, keyvals...) }
func (lg *Logger) Error(msg string, keyvals ...interface{}) { lg.l.Error(msg, keyvals...) }

// SetLevel changes the logger's level in place (e.g. a --log-level
// flag applied after construction).
func (lg *Logger) SetLevel(level Level) {
	lg.l.SetLevel(toCharmLevel(level))
}
