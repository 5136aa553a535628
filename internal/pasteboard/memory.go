package pasteboard

import (
	"sync"

	"github.com/davisday9394/Paiste/internal/content"
)

// Memory is an in-process pasteboard. It backs the daemon on hosts with no
// clipboard at all (copy/paste and history still work over IPC, external
// captures simply never happen) and gives tests a deterministic board.
type Memory struct {
	mu    sync.RWMutex
	count uint64
	val   content.Content
}

// NewMemory returns an empty in-memory board.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "in-memory (headless)" }

func (m *Memory) ChangeCount() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count, nil
}

// Put places c on the board the way an external copy would, bumping the
// change counter.
func (m *Memory) Put(c content.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.val = c
	m.count++
}

func (m *Memory) Read(kind content.Kind) (content.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.val == nil || m.val.Kind() != kind {
		return nil, nil
	}
	return m.val, nil
}

func (m *Memory) Write(c content.Content) error {
	m.Put(c)
	return nil
}

func (m *Memory) Close() {}
