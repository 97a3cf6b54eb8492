// Package corelog provides the structured logging used across the
// xctest runtime: the execution engine and the registration/filter
// pass both log through the same Logger interface.
package corelog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelOrder = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Field is a single structured log field.
type Field struct {
	Key   string
	Value interface{}
}

// String builds a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 builds a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Duration builds a duration field, rendered as its string form.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Any builds a field from an arbitrary value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Bool builds a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// entry is the JSON-serializable shape of one log line.
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger is the logging contract used throughout the runtime.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	With(fields ...Field) Logger
}

// StructuredLogger is the default Logger implementation: it writes one
// JSON object per line, falling back to the standard log package if
// marshaling ever fails.
type StructuredLogger struct {
	level      Level
	output     io.Writer
	baseFields map[string]interface{}
}

// New creates a StructuredLogger at the given level writing to output.
// A nil output defaults to os.Stdout.
func New(level Level, output io.Writer) *StructuredLogger {
	if output == nil {
		output = os.Stdout
	}
	return &StructuredLogger{
		level:      level,
		output:     output,
		baseFields: make(map[string]interface{}),
	}
}

// NewDefault creates a Logger at info level writing to stdout.
func NewDefault() *StructuredLogger {
	return New(LevelInfo, os.Stdout)
}

func (l *StructuredLogger) Debug(msg string, fields ...Field) {
	if l.shouldLog(LevelDebug) {
		l.log(LevelDebug, msg, nil, fields...)
	}
}

func (l *StructuredLogger) Info(msg string, fields ...Field) {
	if l.shouldLog(LevelInfo) {
		l.log(LevelInfo, msg, nil, fields...)
	}
}

func (l *StructuredLogger) Warn(msg string, fields ...Field) {
	if l.shouldLog(LevelWarn) {
		l.log(LevelWarn, msg, nil, fields...)
	}
}

func (l *StructuredLogger) Error(msg string, err error, fields ...Field) {
	if l.shouldLog(LevelError) {
		l.log(LevelError, msg, err, fields...)
	}
}

// With returns a new Logger that carries fields on every subsequent call.
func (l *StructuredLogger) With(fields ...Field) Logger {
	merged := make(map[string]interface{}, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &StructuredLogger{level: l.level, output: l.output, baseFields: merged}
}

func (l *StructuredLogger) log(level Level, msg string, err error, fields ...Field) {
	e := entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]interface{}),
	}
	for k, v := range l.baseFields {
		e.Fields[k] = v
	}
	for _, f := range fields {
		e.Fields[f.Key] = f.Value
	}
	if err != nil {
		e.Error = err.Error()
	}
	if len(e.Fields) == 0 {
		e.Fields = nil
	}

	data, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		log.Printf("corelog: failed to marshal log entry: %v", marshalErr)
		log.Printf("[%s] %s: %v", level, msg, err)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

func (l *StructuredLogger) shouldLog(level Level) bool {
	current, ok := levelOrder[l.level]
	if !ok {
		current = levelOrder[LevelInfo]
	}
	want, ok := levelOrder[level]
	if !ok {
		want = levelOrder[LevelInfo]
	}
	return want >= current
}

// ParseLevel parses a textual log level, defaulting to info.
func ParseLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
