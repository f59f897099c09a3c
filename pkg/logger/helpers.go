package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LogRequest logs one provider HTTP round trip at a level matching its status.
func LogRequest(method, url string, statusCode int, durationMS float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMS,
	}

	switch {
	case statusCode >= 500:
		GetLogger().ErrorWithFields("provider request server error", fields)
	case statusCode >= 400:
		GetLogger().WarnWithFields("provider request client error", fields)
	default:
		GetLogger().DebugWithFields("provider request completed", fields)
	}
}

// LogDownload logs one download outcome.
func LogDownload(filename, kind string, success bool, err error) {
	l := GetLogger().WithFields(map[string]interface{}{
		"filename": filename,
		"kind":     kind,
		"success":  success,
	})
	if err != nil {
		l.WithError(err).Error("download failed")
		return
	}
	l.Info("download completed")
}

// LogExtractProgress logs extraction progress for a sequence.
func LogExtractProgress(source string, yielded, cap int) {
	fields := map[string]interface{}{
		"source":  source,
		"yielded": yielded,
	}
	if cap > 0 {
		fields["cap"] = cap
		fields["percentage"] = fmt.Sprintf("%.1f%%", float64(yielded)/float64(cap)*100)
	}
	GetLogger().InfoWithFields("extraction progress", fields)
}

// NewNopLogger returns a logger that discards everything, for tests.
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
