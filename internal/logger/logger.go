package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	mu     sync.Mutex
	level  = LevelWarn
	output io.Writer = os.Stderr
)

// SetLevel sets the global log level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// LevelFromFlags maps the CLI verbosity flags to a level:
// default shows warnings and errors, --debug adds info, --verbose adds debug.
func LevelFromFlags(debug, verbose bool) Level {
	switch {
	case verbose:
		return LevelDebug
	case debug:
		return LevelInfo
	default:
		return LevelWarn
	}
}

// Logger emits leveled messages with structured fields attached.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type entry struct {
	fields map[string]interface{}
}

func (e entry) WithField(key string, value interface{}) Logger {
	return e.WithFields(map[string]interface{}{key: value})
}

func (e entry) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return entry{fields: merged}
}

func (e entry) Debug(msg string, args ...interface{}) { e.log(LevelDebug, "DEBUG", msg, args...) }
func (e entry) Info(msg string, args ...interface{})  { e.log(LevelInfo, "INFO", msg, args...) }
func (e entry) Warn(msg string, args ...interface{})  { e.log(LevelWarn, "WARN", msg, args...) }
func (e entry) Error(msg string, args ...interface{}) { e.log(LevelError, "ERROR", msg, args...) }

func (e entry) log(l Level, tag, msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if l > level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(tag)
	b.WriteString(" ")
	b.WriteString(msg)

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.fields[k])
	}
	b.WriteString("\n")

	fmt.Fprint(output, b.String())
}

// Package-level convenience functions using an empty field set.

func Debug(msg string, args ...interface{}) { entry{}.Debug(msg, args...) }
func Info(msg string, args ...interface{})  { entry{}.Info(msg, args...) }
func Warn(msg string, args ...interface{})  { entry{}.Warn(msg, args...) }
func Error(msg string, args ...interface{}) { entry{}.Error(msg, args...) }

// WithField returns a logger carrying one structured field.
func WithField(key string, value interface{}) Logger {
	return entry{}.WithField(key, value)
}

// WithFields returns a logger carrying the given structured fields.
func WithFields(fields map[string]interface{}) Logger {
	return entry{}.WithFields(fields)
}
