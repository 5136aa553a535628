package procprobe

import (
	"os"
	"testing"
	"time"
)

func TestSystem_Self(t *testing.T) {
	var p System
	pid := os.Getpid()

	if !p.Alive(pid) {
		t.Fatalf("own pid %d reported dead", pid)
	}

	start, err := p.StartTime(pid)
	if err != nil {
		t.Fatalf("StartTime(%d): %v", pid, err)
	}
	if start.IsZero() {
		t.Fatal("start time is zero")
	}
	if start.After(time.Now().Add(time.Minute)) {
		t.Fatalf("start time %v is in the future", start)
	}
}

func TestFake(t *testing.T) {
	f := NewFake()
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if f.Alive(42) {
		t.Fatal("unregistered pid reported alive")
	}
	if _, err := f.StartTime(42); err == nil {
		t.Fatal("StartTime of unregistered pid should fail")
	}

	f.SetAlive(42, started)
	if !f.Alive(42) {
		t.Fatal("registered pid reported dead")
	}
	got, err := f.StartTime(42)
	if err != nil {
		t.Fatalf("StartTime: %v", err)
	}
	if !got.Equal(started) {
		t.Fatalf("start time = %v, want %v", got, started)
	}

	f.SetDead(42)
	if f.Alive(42) {
		t.Fatal("dead pid reported alive")
	}
}
