// Package singleton enforces the one-daemon-per-machine contract with an
// advisory lock file. Acquisition is a single non-blocking attempt: it
// succeeds, reclaims a lock abandoned by a crashed process, or defers to
// the live holder. A crash leaves the file behind with the dead holder's
// record; the next start detects that and reclaims. Nothing here waits
// for the lock to free up.
package singleton

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/davisday9394/Paiste/internal/procprobe"
)

// startTolerance absorbs rounding between the start time we recorded and
// the one the process table reports for the same process.
const startTolerance = 2 * time.Second

// DefaultPath returns the lock file location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "paiste.lock")
}

// Deferred is returned by Acquire when another live instance holds the
// lock. The caller is expected to hand off to the holder and exit; this
// is an expected outcome, not a failure.
type Deferred struct {
	HolderPID int
}

func (d *Deferred) Error() string {
	if d.HolderPID <= 0 {
		return "another instance is already running"
	}
	return fmt.Sprintf("another instance is already running (pid %d)", d.HolderPID)
}

// Config carries the coordinator's dependencies.
type Config struct {
	Path   string // lock file, DefaultPath when empty
	Prober procprobe.Prober
	Logger *slog.Logger
	PID    int // own pid, os.Getpid when zero
}

// Lock is a held singleton lock. Release it on shutdown.
type Lock struct {
	path string
	fl   *flock.Flock
	log  *slog.Logger
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release removes the lock file and drops the advisory lock. The file
// goes first: once we unlock, a starter could immediately acquire, and
// it must not find (or lose) a freshly written record under the old
// path.
func (l *Lock) Release() {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.log.Warn("could not remove lock file", "path", l.path, "error", err)
	}
	if err := l.fl.Unlock(); err != nil {
		l.log.Warn("could not release lock", "path", l.path, "error", err)
	}
	l.log.Debug("singleton lock released", "path", l.path)
}

// Acquire makes one non-blocking attempt to take the machine-wide lock.
// On success the lock file carries this process's record and the caller
// owns the returned Lock. When a live competing instance is found the
// error is a *Deferred naming the holder. Any other error means the lock
// file itself is unusable, which is fatal to startup.
func Acquire(cfg Config) (*Lock, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.Prober == nil {
		cfg.Prober = procprobe.System{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PID == 0 {
		cfg.PID = os.Getpid()
	}
	log := cfg.Logger

	lk, err := tryAcquire(cfg)
	if err == nil {
		return lk, nil
	}

	var held *heldError
	if !errors.As(err, &held) {
		return nil, err
	}

	rec, recErr := readRecord(cfg.Path)
	if live, holder := judgeHolder(cfg, rec, recErr); live {
		log.Debug("lock held by live instance", "path", cfg.Path, "holder_pid", holder)
		return nil, &Deferred{HolderPID: holder}
	}

	// Stale: the flock is held but the record's owner is gone or is a
	// different incarnation of that pid. Remove the file and retry once
	// on a fresh handle; the stale flock stays behind on the unlinked
	// inode.
	log.Info("reclaiming stale lock", "path", cfg.Path, "recorded_pid", rec.PID)
	if err := os.Remove(cfg.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("could not remove stale lock file", "path", cfg.Path, "error", err)
	}
	lk, err = tryAcquire(cfg)
	if err == nil {
		return lk, nil
	}
	if errors.As(err, &held) {
		return nil, &Deferred{HolderPID: rec.PID}
	}
	return nil, err
}

// heldError marks a TryLock that found a live flock holder, as opposed
// to an unusable lock file.
type heldError struct{ path string }

func (e *heldError) Error() string { return "lock held: " + e.path }

func tryAcquire(cfg Config) (*Lock, error) {
	fl := flock.New(cfg.Path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", cfg.Path, err)
	}
	if !ok {
		return nil, &heldError{path: cfg.Path}
	}

	// A leftover record here means the previous holder died without
	// releasing; the kernel dropped its flock, so we just took over.
	if old, err := readRecord(cfg.Path); err == nil && old.PID != cfg.PID {
		cfg.Logger.Info("reclaiming stale lock", "path", cfg.Path, "recorded_pid", old.PID)
	}

	if err := writeRecord(cfg); err != nil {
		_ = fl.Unlock()
		return nil, err
	}
	cfg.Logger.Debug("singleton lock acquired", "path", cfg.Path, "pid", cfg.PID)
	return &Lock{path: cfg.Path, fl: fl, log: cfg.Logger}, nil
}

func writeRecord(cfg Config) error {
	rec := Record{PID: cfg.PID}
	if start, err := cfg.Prober.StartTime(cfg.PID); err == nil {
		rec.Start = start
	} else {
		// Fall back to a pid-only record rather than inventing a start
		// time a later probe would contradict.
		cfg.Logger.Warn("could not read own start time", "error", err)
	}
	if err := os.WriteFile(cfg.Path, []byte(rec.String()+"\n"), 0o600); err != nil {
		return fmt.Errorf("write lock record: %w", err)
	}
	return nil
}

func readRecord(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return ParseRecord(b)
}

// judgeHolder decides whether the recorded owner is still the process
// that wrote the record. Unreadable or malformed records, dead pids, and
// start-time mismatches (pid reuse after the original owner died) all
// mean stale. A legacy record with no start time validates on identity
// alone.
func judgeHolder(cfg Config, rec Record, recErr error) (live bool, holder int) {
	if recErr != nil {
		return false, 0
	}
	if !cfg.Prober.Alive(rec.PID) {
		return false, rec.PID
	}
	if !rec.HasStart() {
		return true, rec.PID
	}
	start, err := cfg.Prober.StartTime(rec.PID)
	if err != nil {
		// Alive but opaque: assume it is the holder.
		return true, rec.PID
	}
	if absDuration(start.Sub(rec.Start)) > startTolerance {
		return false, rec.PID
	}
	return true, rec.PID
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
