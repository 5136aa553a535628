// Package procprobe answers liveness questions about other processes on
// this machine. The singleton lock uses it to decide whether the process
// named in a lock file is still around or whether the lock is stale and
// can be reclaimed.
package procprobe

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Prober reports on the state of a process identified by pid.
type Prober interface {
	// Alive reports whether a process with the given pid currently exists.
	Alive(pid int) bool

	// StartTime returns when the process was started. Returns an error if
	// the process does not exist or the platform will not say.
	StartTime(pid int) (time.Time, error)
}

// System probes the real process table.
type System struct{}

func (System) Alive(pid int) bool {
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}

func (System) StartTime(pid int) (time.Time, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return time.Time{}, fmt.Errorf("probe pid %d: %w", pid, err)
	}
	ms, err := p.CreateTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("start time of pid %d: %w", pid, err)
	}
	return time.UnixMilli(ms), nil
}
