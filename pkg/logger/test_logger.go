package logger

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// CaptureLogger records log calls in memory so tests can assert on them.
// Derived loggers (WithField etc.) record into the same buffer.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []CapturedEntry

	root   *CaptureLogger
	fields map[string]interface{}
}

// CapturedEntry is one recorded log call.
type CapturedEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewCaptureLogger creates an empty capture logger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{fields: make(map[string]interface{})}
}

func (l *CaptureLogger) rootOrSelf() *CaptureLogger {
	if l.root != nil {
		return l.root
	}
	return l
}

func (l *CaptureLogger) record(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	r := l.rootOrSelf()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, CapturedEntry{Level: level, Message: msg, Fields: merged})
}

func (l *CaptureLogger) Debug(msg string) { l.record("debug", msg, nil) }
func (l *CaptureLogger) Info(msg string)  { l.record("info", msg, nil) }
func (l *CaptureLogger) Warn(msg string)  { l.record("warn", msg, nil) }
func (l *CaptureLogger) Error(msg string) { l.record("error", msg, nil) }
func (l *CaptureLogger) Fatal(msg string) { l.record("fatal", msg, nil) }

func (l *CaptureLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *CaptureLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *CaptureLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *CaptureLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *CaptureLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *CaptureLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &CaptureLogger{root: l.rootOrSelf(), fields: merged}
}

func (l *CaptureLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *CaptureLogger) GetZerolog() *zerolog.Logger {
	return nil
}

// Entries returns a copy of everything recorded so far.
func (l *CaptureLogger) Entries() []CapturedEntry {
	r := l.rootOrSelf()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CapturedEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// HasMessage reports whether any recorded message contains the substring.
func (l *CaptureLogger) HasMessage(substr string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Reset discards all recorded entries.
func (l *CaptureLogger) Reset() {
	r := l.rootOrSelf()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
