// Package logger provides levelled diagnostics with source provenance.
//
// Messages below the logger's minimum level are discarded before
// formatting. The minimum level of the global loggers can be set with the
// MCTRANS_LOG and MCTRANS_LOG_LOCAL environment variables, e.g.
// MCTRANS_LOG=debug.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

type Level int32

const (
	Debug Level = iota
	Diagnostic
	Status
	Info
	Warning
	Error
	Critical
)

var levelNames = [...]string{"debug", "diagnostic", "status", "info", "warning", "error", "critical"}

func (l Level) String() string {
	if l < Debug || l > Critical {
		return fmt.Sprintf("level(%d)", int32(l))
	}
	return levelNames[l]
}

var ErrInvalidLevel = errors.New("logger: invalid log level")

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return Debug, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Provenance is the source location of a log call.
type Provenance struct {
	File string
	Line int
}

func (p Provenance) String() string {
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Handler receives every message at or above the minimum level.
type Handler func(prov Provenance, lev Level, msg string)

// DefaultLevel is the minimum level when no environment override is set.
const DefaultLevel = Info

type Logger struct {
	handler Handler
	min     atomic.Int32
}

// warnOutput receives complaints about bad environment values.
var warnOutput io.Writer = os.Stderr

// New creates a logger. If levelEnv names a set environment variable, its
// value overrides the default minimum level; invalid values are reported
// and ignored. A nil handler discards everything.
func New(handler Handler, levelEnv string) *Logger {
	l := &Logger{handler: handler}
	l.min.Store(int32(DefaultLevel))

	if levelEnv == "" {
		return l
	}
	if value, ok := os.LookupEnv(levelEnv); ok {
		lev, err := ParseLevel(value)
		if err != nil {
			fmt.Fprintf(warnOutput, "Log level environment variable '%s' has an invalid value '%s': ignoring\n", levelEnv, value)
		} else {
			l.min.Store(int32(lev))
		}
	}
	return l
}

func (l *Logger) Level() Level           { return Level(l.min.Load()) }
func (l *Logger) SetLevel(lev Level)     { l.min.Store(int32(lev)) }
func (l *Logger) Enabled(lev Level) bool { return l.handler != nil && lev >= l.Level() }

func (l *Logger) Debugf(format string, args ...any)      { l.logf(Debug, format, args...) }
func (l *Logger) Diagnosticf(format string, args ...any) { l.logf(Diagnostic, format, args...) }
func (l *Logger) Statusf(format string, args ...any)     { l.logf(Status, format, args...) }
func (l *Logger) Infof(format string, args ...any)       { l.logf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)       { l.logf(Warning, format, args...) }
func (l *Logger) Errorf(format string, args ...any)      { l.logf(Error, format, args...) }
func (l *Logger) Criticalf(format string, args ...any)   { l.logf(Critical, format, args...) }

// Logf logs at an arbitrary level.
func (l *Logger) Logf(lev Level, format string, args ...any) { l.logf(lev, format, args...) }

func (l *Logger) logf(lev Level, format string, args ...any) {
	if !l.Enabled(lev) {
		return
	}
	prov := Provenance{File: "unknown"}
	if _, file, line, ok := runtime.Caller(2); ok {
		prov = Provenance{File: filepath.Base(file), Line: line}
	}
	l.handler(prov, lev, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

var (
	worldOnce, selfOnce sync.Once
	world, self         *Logger
)

// World is the shared logger for run-level messages.
func World() *Logger {
	worldOnce.Do(func() {
		world = New(DefaultHandler(os.Stderr), "MCTRANS_LOG")
	})
	return world
}

// Self is the logger for messages that every process should print, tagged
// with the process id.
func Self() *Logger {
	selfOnce.Do(func() {
		self = New(LocalHandler(os.Stderr, os.Getpid()), "MCTRANS_LOG_LOCAL")
	})
	return self
}
