// Package history implements the clipboard history: a bounded, deduplicated
// list of captured entries ordered most-recently-used first. The Store is the
// single serialisation point for history state; the poller, the IPC handlers,
// and the persistence layer all go through it.
package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davisday9394/Paiste/internal/content"
)

// DefaultCapacity is the history size used when none is configured.
const DefaultCapacity = 100

// eventBuffer is the per-subscriber channel depth. A subscriber that falls
// further behind starts dropping events and re-lists on the next one.
const eventBuffer = 16

// Entry is one history item. Kind always mirrors Content.Kind so callers can
// filter a snapshot without touching the value.
type Entry struct {
	ID        string
	Content   content.Content
	CreatedAt time.Time
	Kind      content.Kind
}

// Op classifies a change event.
type Op string

const (
	OpInsert Op = "insert" // new entry at the front
	OpTouch  Op = "touch"  // existing entry moved to the front
	OpRemove Op = "remove" // entry deleted
	OpClear  Op = "clear"  // everything deleted
	OpRaise  Op = "raise"  // another instance asked us to foreground
)

// Event is a change notification delivered to subscribers.
// Entry is nil for OpClear and OpRaise.
type Event struct {
	Op    Op
	Entry *Entry
}

// Config configures a Store. Zero values select defaults.
type Config struct {
	Capacity int
	Logger   *slog.Logger

	// Now and NewID exist so tests can pin time and identity.
	Now   func() time.Time
	NewID func() string
}

// Store holds the history. All methods are safe for concurrent use.
type Store struct {
	capacity int
	log      *slog.Logger
	now      func() time.Time
	newID    func() string

	mu      sync.RWMutex
	entries []Entry // index 0 = most recently used

	subMu   sync.RWMutex
	subs    map[int]chan Event
	nextSub int

	hookMu   sync.RWMutex
	onMutate func(snapshot []Entry)
}

// New returns an empty Store.
func New(cfg Config) *Store {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Store{
		capacity: cfg.Capacity,
		log:      cfg.Logger,
		now:      cfg.Now,
		newID:    cfg.NewID,
		subs:     make(map[int]chan Event),
	}
}

// Capacity returns the configured maximum size.
func (s *Store) Capacity() int { return s.capacity }

// Len returns the current number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the history, newest first. The copy is isolated
// from later mutation.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// At returns the entry at the given position, 0 being the newest.
func (s *Store) At(index int) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

// Insert records newly captured content. If an equal entry already exists it
// is moved to the front keeping its id and CreatedAt, and created is false.
// Otherwise a new entry is created at the front and the oldest entry is
// evicted if the store is full. Empty or nil content is ignored.
func (s *Store) Insert(c content.Content) (created Entry, isNew bool) {
	if c == nil || c.Empty() {
		return Entry{}, false
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].Content.Equal(c) {
			s.moveToFrontLocked(i)
			e := s.entries[0]
			snap := s.snapshotLocked()
			s.mu.Unlock()

			s.mutated(snap)
			s.publish(Event{Op: OpTouch, Entry: &e})
			return e, false
		}
	}

	e := Entry{
		ID:        s.newID(),
		Content:   c,
		CreatedAt: s.now(),
		Kind:      c.Kind(),
	}
	s.entries = append([]Entry{e}, s.entries...)
	var evicted string
	if len(s.entries) > s.capacity {
		evicted = s.entries[len(s.entries)-1].ID
		s.entries = s.entries[:s.capacity]
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if evicted != "" {
		s.log.Debug("evicted oldest entry", "id", evicted)
	}
	s.mutated(snap)
	s.publish(Event{Op: OpInsert, Entry: &e})
	return e, true
}

// MoveToTop relocates the entry with the given id to the front, preserving
// its content and CreatedAt. Unknown ids are a no-op.
func (s *Store) MoveToTop(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.moveToFrontLocked(i)
	e := s.entries[0]
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.mutated(snap)
	s.publish(Event{Op: OpTouch, Entry: &e})
	return true
}

// Remove deletes the entry with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	return s.removeAtLocked(i)
}

// RemoveAt deletes the entry at the given position. Out-of-range positions
// are a no-op, not an error.
func (s *Store) RemoveAt(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	return s.removeAtLocked(index)
}

// removeAtLocked deletes entry index, releases the lock, and fires the hooks.
func (s *Store) removeAtLocked(index int) bool {
	e := s.entries[index]
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.mutated(snap)
	s.publish(Event{Op: OpRemove, Entry: &e})
	return true
}

// Clear empties the store and returns how many entries were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if n == 0 {
		return 0
	}
	s.mutated(snap)
	s.publish(Event{Op: OpClear})
	return n
}

// ReplaceAll loads entries wholesale, typically at startup. Entries beyond
// capacity are dropped, empty content is skipped, missing ids and timestamps
// are repaired. No change events fire and the persistence hook is not called.
func (s *Store) ReplaceAll(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	for _, e := range entries {
		if e.Content == nil || e.Content.Empty() {
			continue
		}
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		e.Kind = e.Content.Kind()
		s.entries = append(s.entries, e)
		if len(s.entries) == s.capacity {
			break
		}
	}
}

// Subscribe registers a change listener. The returned cancel func must be
// called when the listener goes away; after cancel the channel is closed.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Raise notifies subscribers that another instance asked this one to come to
// the foreground. The history itself is unchanged.
func (s *Store) Raise() {
	s.publish(Event{Op: OpRaise})
}

// SetOnMutate registers the persistence hook, called with a fresh snapshot
// after every mutation. Only one hook is supported; calling again replaces it.
func (s *Store) SetOnMutate(fn func(snapshot []Entry)) {
	s.hookMu.Lock()
	s.onMutate = fn
	s.hookMu.Unlock()
}

func (s *Store) mutated(snap []Entry) {
	s.hookMu.RLock()
	fn := s.onMutate
	s.hookMu.RUnlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Debug("subscriber behind, dropping event", "subscriber", id, "op", ev.Op)
		}
	}
}

// indexLocked returns the position of id, or -1. Must be called with s.mu held.
func (s *Store) indexLocked(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// moveToFrontLocked shifts entry i to index 0 preserving the relative order
// of everything else. Must be called with s.mu held.
func (s *Store) moveToFrontLocked(i int) {
	if i == 0 {
		return
	}
	e := s.entries[i]
	copy(s.entries[1:i+1], s.entries[:i])
	s.entries[0] = e
}

func (s *Store) snapshotLocked() []Entry {
	return append([]Entry(nil), s.entries...)
}
