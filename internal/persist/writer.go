package persist

import (
	"log/slog"
	"sync"

	"github.com/davisday9394/Paiste/internal/history"
)

// Writer moves history writes off the mutation path. Snapshots are queued
// with latest-wins semantics: if a write is already pending the stale
// snapshot is replaced, so a burst of mutations collapses into one write.
type Writer struct {
	file *File
	log  *slog.Logger

	ch   chan []history.Entry
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewWriter starts the background writer for file.
func NewWriter(file *File, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	w := &Writer{
		file: file,
		log:  log,
		ch:   make(chan []history.Entry, 1),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules snapshot to be written. Never blocks and never fails;
// a snapshot queued behind another replaces it.
func (w *Writer) Enqueue(snapshot []history.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for {
		select {
		case w.ch <- snapshot:
			return
		default:
			// Channel full: drop the pending stale snapshot and retry.
			select {
			case <-w.ch:
			default:
			}
		}
	}
}

// Close writes any pending snapshot and stops the writer. Enqueue after
// Close is a no-op.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)
	for snap := range w.ch {
		if err := w.file.Save(snap); err != nil {
			w.log.Warn("history write failed", "err", err)
		}
	}
}
