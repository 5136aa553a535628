// Package persist owns the history file: one JSON document, rewritten in full
// after every history mutation and loaded once at startup.
//
// Persistence is best-effort. The in-memory store is authoritative; a failed
// write is logged and the next mutation tries again. A file that cannot be
// parsed is discarded wholesale rather than half-loaded.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/history"
	"github.com/davisday9394/Paiste/internal/vault"
)

// Version is the history file schema version. Files with any other version
// are discarded on load.
const Version = 1

type fileEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	content.Payload
}

type fileDoc struct {
	Version int         `json:"version"`
	Entries []fileEntry `json:"entries"`
}

// DefaultPath returns the standard history file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "paiste", "history.json")
}

// Config configures a File.
type Config struct {
	Path       string
	Capacity   int    // entries beyond this are not written
	Passphrase string // non-empty seals the file at rest
	Logger     *slog.Logger
}

// File reads and writes the history file.
type File struct {
	path     string
	capacity int
	key      *vault.Key // nil = plain JSON
	log      *slog.Logger
}

// NewFile returns a File for cfg, deriving the sealing key if a passphrase
// is configured.
func NewFile(cfg Config) (*File, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = history.DefaultCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	f := &File{path: cfg.Path, capacity: cfg.Capacity, log: cfg.Logger}
	if cfg.Passphrase != "" {
		key, err := vault.DeriveKey(cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		f.key = key
	}
	return f, nil
}

// Path returns the history file location.
func (f *File) Path() string { return f.path }

// Load reads the history file. firstRun is true only when the file does not
// exist yet. Every failure mode short of that (unreadable file, wrong
// passphrase, corrupt JSON, version mismatch) logs a warning and yields an
// empty history; nothing is ever half-loaded.
func (f *File) Load() (entries []history.Entry, firstRun bool) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, true
	}
	if err != nil {
		f.log.Warn("history file unreadable, starting empty", "path", f.path, "err", err)
		return nil, false
	}

	if vault.IsSealed(raw) {
		if f.key == nil {
			f.log.Warn("history file is sealed but no passphrase is configured, starting empty", "path", f.path)
			return nil, false
		}
		raw, err = vault.Open(raw, f.key)
		if err != nil {
			f.log.Warn("history file could not be unsealed, starting empty", "path", f.path, "err", err)
			return nil, false
		}
	}

	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		f.log.Warn("history file corrupt, discarding", "path", f.path, "err", err)
		return nil, false
	}
	if doc.Version != Version {
		f.log.Warn("history file version mismatch, discarding", "path", f.path, "version", doc.Version)
		return nil, false
	}

	entries = make([]history.Entry, 0, len(doc.Entries))
	for _, fe := range doc.Entries {
		c, err := fe.Payload.Decode()
		if err != nil {
			// A kind tag from a newer build is skipped; the rest of the
			// file still loads. Anything else is corruption.
			if errors.Is(err, content.ErrUnknownKind) {
				f.log.Debug("skipping entry with unknown kind", "id", fe.ID, "kind", fe.Kind)
				continue
			}
			f.log.Warn("history file corrupt, discarding", "path", f.path, "err", err)
			return nil, false
		}
		if c.Empty() {
			continue
		}
		entries = append(entries, history.Entry{
			ID:        fe.ID,
			Content:   c,
			CreatedAt: fe.CreatedAt,
			Kind:      c.Kind(),
		})
	}
	return entries, false
}

// Save writes entries to the history file, capped to the configured
// capacity, sealing first if a passphrase is configured. The write goes to a
// temp file in the same directory and is renamed into place.
func (f *File) Save(entries []history.Entry) error {
	if len(entries) > f.capacity {
		entries = entries[:f.capacity]
	}
	doc := fileDoc{Version: Version, Entries: make([]fileEntry, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, fileEntry{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			Payload:   content.Encode(e.Content),
		})
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if f.key != nil {
		if b, err = vault.Seal(b, f.key); err != nil {
			return fmt.Errorf("seal history: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Seed returns the starter entries written the first time paiste runs, so a
// fresh install has something to show.
func Seed() []history.Entry {
	lines := []string{
		"Welcome to paiste. Everything you copy lands here.",
		"paiste list shows the history; paiste paste 2 restores the third entry.",
		"Copying a value you already have moves it back to the top.",
	}
	now := time.Now()
	entries := make([]history.Entry, 0, len(lines))
	for i, s := range lines {
		entries = append(entries, history.Entry{
			ID:        uuid.NewString(),
			Content:   content.NewText(s),
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
			Kind:      content.KindText,
		})
	}
	return entries
}
