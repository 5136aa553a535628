package procprobe

import (
	"fmt"
	"sync"
	"time"
)

// Fake is a scriptable Prober for tests.
type Fake struct {
	mu     sync.Mutex
	starts map[int]time.Time
}

func NewFake() *Fake {
	return &Fake{starts: make(map[int]time.Time)}
}

// SetAlive registers pid as a running process with the given start time.
func (f *Fake) SetAlive(pid int, start time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts[pid] = start
}

// SetDead removes pid from the fake process table.
func (f *Fake) SetDead(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.starts, pid)
}

func (f *Fake) Alive(pid int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.starts[pid]
	return ok
}

func (f *Fake) StartTime(pid int) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	start, ok := f.starts[pid]
	if !ok {
		return time.Time{}, fmt.Errorf("probe pid %d: no such process", pid)
	}
	return start, nil
}
