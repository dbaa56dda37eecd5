package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// StructuredLogger provides ELK-compatible JSON logging.
//
// Design Principles:
// - JSON structured output for easy parsing
// - Standard fields (@timestamp, level, message, etc.)
// - Thread-safe logging
// - Global service fields merged into every entry
type StructuredLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel LogLevel
	fields   map[string]interface{} // Global fields for all logs
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string onto a log level, defaulting to
// info for unknown values.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	}
	return InfoLevel
}

// LogEntry represents a single log entry in ELK-compatible format.
type LogEntry struct {
	Timestamp string                 `json:"@timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Logger    string                 `json:"logger,omitempty"`
	Host      string                 `json:"host,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
	ErrorType string                 `json:"error_type,omitempty"`
}

// NewStructuredLogger creates a new structured logger.
func NewStructuredLogger(writer io.Writer, minLevel LogLevel) *StructuredLogger {
	if writer == nil {
		writer = os.Stdout
	}

	hostname, _ := os.Hostname()

	return &StructuredLogger{
		writer:   writer,
		minLevel: minLevel,
		fields: map[string]interface{}{
			"service": "ecoswitch",
			"host":    hostname,
		},
	}
}

// NewDefaultLogger creates a logger with INFO level to stdout.
func NewDefaultLogger() *StructuredLogger {
	return NewStructuredLogger(os.Stdout, InfoLevel)
}

// SetMinLevel sets the minimum log level.
func (l *StructuredLogger) SetMinLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// WithField adds a global field to all log entries.
func (l *StructuredLogger) WithField(key string, value interface{}) *StructuredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields[key] = value
	return l
}

// Debug logs a debug-level message.
func (l *StructuredLogger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, nil, fields...)
}

// Info logs an info-level message.
func (l *StructuredLogger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, nil, fields...)
}

// Warn logs a warning-level message.
func (l *StructuredLogger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, nil, fields...)
}

// Error logs an error-level message.
func (l *StructuredLogger) Error(message string, err error, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, err, fields...)
}

// Fatal logs a fatal-level message and exits the program.
func (l *StructuredLogger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.log(FatalLevel, message, err, fields...)
	os.Exit(1)
}

// log is the internal logging function.
func (l *StructuredLogger) log(level LogLevel, message string, err error, fields ...map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   message,
		Logger:    "ecoswitch",
		Fields:    make(map[string]interface{}, len(l.fields)),
	}

	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, fieldMap := range fields {
		for k, v := range fieldMap {
			entry.Fields[k] = v
		}
	}

	if err != nil {
		entry.Error = err.Error()
		entry.ErrorType = fmt.Sprintf("%T", err)
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		// Fallback to simple logging if JSON encoding fails
		fmt.Fprintf(l.writer, "{\"error\":\"failed to encode log entry\",\"original_message\":%q}\n", message)
		return
	}

	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
}
