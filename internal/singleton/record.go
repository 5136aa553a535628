package singleton

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is the contents of the lock file: the holder's pid plus the
// holder's own start time, used to tell a reused pid from the original
// process. Older builds wrote the pid alone; those records parse with a
// zero Start and get identity-only validation.
type Record struct {
	PID   int
	Start time.Time
}

// HasStart reports whether the record carries a start time.
func (r Record) HasStart() bool { return !r.Start.IsZero() }

func (r Record) String() string {
	if !r.HasStart() {
		return strconv.Itoa(r.PID)
	}
	return fmt.Sprintf("%d:%d", r.PID, r.Start.UnixMilli())
}

// ParseRecord decodes a lock file body. Accepts `pid` and
// `pid:startUnixMilli`.
func ParseRecord(b []byte) (Record, error) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return Record{}, fmt.Errorf("empty lock record")
	}
	pidPart, startPart, hasStart := strings.Cut(s, ":")
	pid, err := strconv.Atoi(pidPart)
	if err != nil || pid <= 0 {
		return Record{}, fmt.Errorf("bad pid in lock record %q", s)
	}
	rec := Record{PID: pid}
	if hasStart {
		ms, err := strconv.ParseInt(startPart, 10, 64)
		if err != nil || ms <= 0 {
			return Record{}, fmt.Errorf("bad start time in lock record %q", s)
		}
		rec.Start = time.UnixMilli(ms)
	}
	return rec, nil
}
