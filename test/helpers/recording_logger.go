package helpers

import (
	"sync"

	"github.com/andrescamacho/swarm-go/internal/application/logging"
)

// LogRecord is one captured log call
type LogRecord struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// RecordingLogger captures log calls for assertions. Safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewRecordingLogger creates an empty recorder
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, LogRecord{Level: level, Message: message, Metadata: metadata})
}

// Records returns a copy of everything logged so far
func (l *RecordingLogger) Records() []LogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogRecord(nil), l.records...)
}

// Count returns how many records have the given level
func (l *RecordingLogger) Count(level string) int {
	n := 0
	for _, r := range l.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

var _ logging.Logger = (*RecordingLogger)(nil)
