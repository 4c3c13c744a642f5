package logging

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one journaled log line
type Entry struct {
	RunID     string
	Scope     string
	Level     string
	Message   string
	Metadata  map[string]interface{}
	Timestamp time.Time
}

// JournalSink persists journal entries
type JournalSink interface {
	Append(ctx context.Context, entry Entry) error
}

// Journal decorates a logger and copies every entry to a sink from a single
// background writer. Entries are dropped when the queue is full so logging
// never blocks an agent.
type Journal struct {
	next   Logger
	runID  string
	scope  string
	writer *journalWriter
}

// journalWriter is shared by a journal and all of its scoped children
type journalWriter struct {
	sink    JournalSink
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	failed  atomic.Int64
	lastErr error // written by drain only; read after done
	queue   chan Entry
	done    chan struct{}
}

const journalQueueSize = 1024

// NewJournal starts the background writer. Close must be called to flush.
func NewJournal(next Logger, sink JournalSink, runID string) *Journal {
	if next == nil {
		next = NoOp()
	}
	w := &journalWriter{
		sink:  sink,
		queue: make(chan Entry, journalQueueSize),
		done:  make(chan struct{}),
	}
	go w.drain()
	return &Journal{next: next, runID: runID, writer: w}
}

func (w *journalWriter) drain() {
	defer close(w.done)
	for entry := range w.queue {
		if err := w.sink.Append(context.Background(), entry); err != nil {
			w.failed.Add(1)
			w.lastErr = err
		}
	}
}

func (w *journalWriter) enqueue(entry Entry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.queue <- entry:
	default:
		w.dropped.Add(1)
	}
}

func (j *Journal) Log(level, message string, metadata map[string]interface{}) {
	j.next.Log(level, message, metadata)
	j.writer.enqueue(Entry{
		RunID:     j.runID,
		Scope:     j.scope,
		Level:     level,
		Message:   message,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	})
}

// WithScope returns a child journal sharing the same writer
func (j *Journal) WithScope(scope string) Logger {
	return &Journal{
		next:   Scope(j.next, scope),
		runID:  j.runID,
		scope:  scope,
		writer: j.writer,
	}
}

// Dropped reports how many entries were discarded because the queue was full
func (j *Journal) Dropped() int {
	return int(j.writer.dropped.Load())
}

// Failed reports how many entries the sink refused
func (j *Journal) Failed() int {
	return int(j.writer.failed.Load())
}

// Close stops accepting entries and waits for the writer to flush. Lost
// entries are reported once on the decorated logger.
func (j *Journal) Close() {
	w := j.writer
	w.mu.Lock()
	first := !w.closed
	if first {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done

	if !first {
		return
	}
	dropped, failed := w.dropped.Load(), w.failed.Load()
	if dropped == 0 && failed == 0 {
		return
	}
	metadata := map[string]interface{}{
		"run_id":  j.runID,
		"dropped": dropped,
		"failed":  failed,
	}
	if w.lastErr != nil {
		metadata["error"] = w.lastErr.Error()
	}
	j.next.Log(LevelWarning, "Journal lost entries", metadata)
}

var _ ScopedLogger = (*Journal)(nil)
