// Package logging provides the diagnostic logger shared by the manager,
// storage backends and commands.
package logging

import (
	"io"
	"log"
)

// Prefix is prepended to every log line.
const Prefix = "todo: "

// Logger writes diagnostics to stderr. Printf always writes; Debugf writes
// only when debug output was requested with --debug.
type Logger struct {
	l     *log.Logger
	debug bool
}

// New creates a Logger writing to w.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		l:     log.New(w, Prefix, 0),
		debug: debug,
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Printf logs an operational message.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.l.Printf(format, args...)
}

// Debugf logs a message only in debug mode.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.debug {
		return
	}
	l.l.Printf("debug: "+format, args...)
}

// DebugEnabled reports whether debug output is on.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.debug
}
