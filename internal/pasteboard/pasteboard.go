// Package pasteboard abstracts the system clipboard behind a change counter
// and typed reads. Build constraints select the platform backend:
//
//	system_darwin.go  — macOS via golang.design/x/clipboard + cgo changeCount
//	system_goclip.go  — Linux / Windows via golang.design/x/clipboard,
//	                    counter derived by observation
//	system_other.go   — everything else: no native backend
//	command.go        — text-only fallback via the atotto helper commands
//	memory.go         — in-process board for headless hosts and tests
package pasteboard

import (
	"crypto/sha256"
	"encoding/binary"
	"log/slog"

	"github.com/davisday9394/Paiste/internal/content"
)

// Pasteboard is the clipboard capability the poller and the paste path
// consume.
type Pasteboard interface {
	// Name returns a human-readable backend name.
	Name() string

	// ChangeCount returns a counter that increases every time the clipboard
	// contents change. Only the difference from a previous observation
	// carries meaning, never the absolute value.
	ChangeCount() (uint64, error)

	// Read returns the current clipboard content of the given kind, or
	// (nil, nil) when nothing of that kind is on offer.
	Read(kind content.Kind) (content.Content, error)

	// Write replaces the clipboard contents.
	Write(c content.Content) error

	// Close releases any resources held by the backend.
	Close()
}

// New probes backends in order: the native system clipboard, the external
// helper commands, and finally an in-memory board so a daemon on a headless
// host still serves its history.
func New(log *slog.Logger) Pasteboard {
	if log == nil {
		log = slog.Default()
	}
	if pb, err := newSystem(); err == nil {
		log.Info("pasteboard ready", "backend", pb.Name())
		return pb
	} else {
		log.Warn("system clipboard unavailable", "err", err)
	}
	if pb, err := newCommand(); err == nil {
		log.Info("pasteboard ready", "backend", pb.Name())
		return pb
	} else {
		log.Warn("clipboard helper command unavailable", "err", err)
	}
	log.Warn("no clipboard available, captures disabled", "backend", "in-memory")
	return NewMemory()
}

// digestCounter derives a change counter for backends without a native one:
// each observation is a digest of whatever is readable, and the counter
// bumps when the digest differs from the previous observation. The first
// observation primes the baseline without counting as a change.
type digestCounter struct {
	primed bool
	last   [sha256.Size]byte
	count  uint64
}

func (d *digestCounter) observe(sum [sha256.Size]byte) uint64 {
	if !d.primed {
		d.primed = true
		d.last = sum
		return d.count
	}
	if sum != d.last {
		d.last = sum
		d.count++
	}
	return d.count
}

// digestOf length-prefixes each part so ("ab","c") and ("a","bc") digest
// differently.
func digestOf(parts ...[]byte) [sha256.Size]byte {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
