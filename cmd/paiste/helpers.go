package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/davisday9394/Paiste/internal/ipc"
	"github.com/davisday9394/Paiste/internal/message"
	"github.com/davisday9394/Paiste/internal/wire"
)

var errNotRunning = errors.New("no paiste daemon is running (start one with 'paiste daemon')")

const replyTimeout = 5 * time.Second

// roundTrip sends one request to the daemon and reads one response.
// ERROR responses come back as plain errors.
func roundTrip(req *message.Message) (*message.Message, error) {
	if !ipc.IsRunning() {
		return nil, errNotRunning
	}
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(req); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	wc.SetReadDeadline(replyTimeout)
	resp, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}

// applySelector fills msg's selector from a CLI argument: a bare integer
// selects by position (0 = newest), anything else is an entry id.
func applySelector(msg *message.Message, arg string) *message.Message {
	if i, err := strconv.Atoi(arg); err == nil {
		return msg.WithIndex(i)
	}
	msg.ID = arg
	return msg
}

// oneEntry unwraps the single entry of an ENTRIES response.
func oneEntry(resp *message.Message) (message.Entry, error) {
	if resp.Type != message.TypeEntries || len(resp.Entries) != 1 {
		return message.Entry{}, fmt.Errorf("unexpected reply %q", resp.Type)
	}
	return resp.Entries[0], nil
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	if age < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	}
	return t.Format("2006-01-02")
}
