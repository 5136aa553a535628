package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/history"
	"github.com/davisday9394/Paiste/internal/ipc"
	"github.com/davisday9394/Paiste/internal/message"
	"github.com/davisday9394/Paiste/internal/pasteboard"
	"github.com/davisday9394/Paiste/internal/persist"
	"github.com/davisday9394/Paiste/internal/poller"
	"github.com/davisday9394/Paiste/internal/singleton"
	"github.com/davisday9394/Paiste/internal/wire"
)

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the clipboard history daemon",
		Long: `Starts the paiste daemon: watches the system clipboard, records a
deduplicated history, persists it, and serves the other verbs over a
local socket.

Only one daemon runs per machine. A second "paiste daemon" notices the
running instance, asks it to come to the foreground, and exits.

Config file search order:
  /etc/paiste/paiste.toml
  $HOME/.config/paiste/paiste.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → PAISTE_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	f.Duration("interval", poller.DefaultInterval, "clipboard poll interval")
	f.Int("capacity", history.DefaultCapacity, "maximum history entries")
	f.String("history-file", persist.DefaultPath(), "history file path")
	f.String("lock-file", singleton.DefaultPath(), "single-instance lock file path")
	f.String("passphrase", "", "seal the history file at rest (empty = plain JSON)")
	f.StringSlice("kinds", nil, "content kinds to capture, in priority order (default text,image,file)")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	log := setupLogging(v)

	lock, err := singleton.Acquire(singleton.Config{
		Path:   v.GetString("lock-file"),
		Logger: log,
	})
	var deferred *singleton.Deferred
	if errors.As(err, &deferred) {
		log.Info("deferring to the running instance", "holder_pid", deferred.HolderPID)
		raiseRunning(log)
		return nil
	}
	if err != nil {
		return fmt.Errorf("single-instance lock: %w", err)
	}
	defer lock.Release()

	capacity := v.GetInt("capacity")
	passphrase := v.GetString("passphrase")

	file, err := persist.NewFile(persist.Config{
		Path:       v.GetString("history-file"),
		Capacity:   capacity,
		Passphrase: passphrase,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	kinds, err := parseKinds(v.GetStringSlice("kinds"))
	if err != nil {
		return err
	}

	store := history.New(history.Config{Capacity: capacity, Logger: log})
	entries, firstRun := file.Load()
	if firstRun {
		entries = persist.Seed()
		log.Info("no history file yet, seeding starter entries", "entries", len(entries))
	}
	store.ReplaceAll(entries)
	log.Info("history loaded",
		"entries", store.Len(),
		"path", file.Path(),
		"sealed", passphrase != "",
	)

	writer := persist.NewWriter(file, log)
	defer writer.Close()
	store.SetOnMutate(writer.Enqueue)
	if firstRun {
		writer.Enqueue(store.Snapshot())
	}

	board := pasteboard.New(log)
	defer board.Close()

	p := poller.New(poller.Config{
		Board:    board,
		Store:    store,
		Interval: v.GetDuration("interval"),
		Kinds:    kinds,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &daemon{
		log:      log,
		store:    store,
		board:    board,
		file:     file,
		lockPath: lock.Path(),
		sealed:   passphrase != "",
		started:  time.Now(),
		ctx:      ctx,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Run(ctx)
		return nil
	})

	ipcLn, err := ipc.Listen()
	if err != nil {
		log.Warn("IPC socket unavailable", "err", err)
	} else {
		log.Info("IPC socket listening", "path", ipc.SocketPath())
		g.Go(func() error {
			d.serve(ipcLn)
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			_ = ipcLn.Close()
			return nil
		})
	}

	log.Info("paiste daemon running", "version", Version, "pid", os.Getpid())
	_ = g.Wait()
	log.Info("shutting down")
	return nil
}

// raiseRunning asks the live daemon to foreground itself. Best effort:
// a daemon that is not serving IPC simply does not get the hint.
func raiseRunning(log *slog.Logger) {
	if !ipc.IsRunning() {
		return
	}
	conn, err := ipc.Dial()
	if err != nil {
		return
	}
	defer conn.Close()
	wc := wire.New(conn)
	if err := wc.WriteMsg(&message.Message{Type: message.TypeRaise}); err != nil {
		log.Debug("raise request failed", "err", err)
		return
	}
	wc.SetReadDeadline(2 * time.Second)
	_, _ = wc.ReadMsg()
}

func parseKinds(ss []string) ([]content.Kind, error) {
	if len(ss) == 0 {
		return nil, nil // poller default
	}
	kinds := make([]content.Kind, 0, len(ss))
	for _, s := range ss {
		k, err := content.ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// daemon serves IPC requests against the running store.
type daemon struct {
	log      *slog.Logger
	store    *history.Store
	board    pasteboard.Pasteboard
	file     *persist.File
	lockPath string
	sealed   bool
	started  time.Time
	ctx      context.Context
}

func (d *daemon) serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go d.handleConn(conn)
	}
}

// handleConn reads a single request and answers it. WATCH keeps the
// connection open and streams events until either side goes away.
func (d *daemon) handleConn(conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	wc.SetReadDeadline(5 * time.Second)
	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}
	wc.SetReadDeadline(0)

	if msg.Type == message.TypeWatch {
		d.handleWatch(wc)
		return
	}
	if resp := d.dispatch(msg); resp != nil {
		_ = wc.WriteMsg(resp)
	}
}

func (d *daemon) dispatch(msg *message.Message) *message.Message {
	switch msg.Type {
	case message.TypeList:
		return d.handleList(msg)
	case message.TypeCopy:
		return d.handleCopy(msg)
	case message.TypePaste:
		return d.handlePaste(msg)
	case message.TypePromote:
		// Unlike paste, promote and remove never default to the newest
		// entry; a request without a selector is malformed.
		if !msg.HasSelector() {
			return message.NewError(errNoSelector)
		}
		entry, ok := d.resolve(msg)
		if !ok {
			return message.NewError(errNoSuchEntry)
		}
		d.store.MoveToTop(entry.ID)
		return message.OK()
	case message.TypeRemove:
		if !msg.HasSelector() {
			return message.NewError(errNoSelector)
		}
		entry, ok := d.resolve(msg)
		if !ok {
			return message.NewError(errNoSuchEntry)
		}
		d.store.Remove(entry.ID)
		d.log.Debug("entry removed over ipc", "id", entry.ID)
		return message.OK()
	case message.TypeClear:
		n := d.store.Clear()
		d.log.Info("history cleared over ipc", "removed", n)
		return message.OK()
	case message.TypeStatus:
		return d.handleStatus()
	case message.TypeRaise:
		d.log.Info("raise requested by another instance")
		d.store.Raise()
		return message.OK()
	default:
		return message.NewError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

var (
	errNoSuchEntry = errors.New("no such entry")
	errNoSelector  = errors.New("an entry selector (index or id) is required")
)

func (d *daemon) handleList(msg *message.Message) *message.Message {
	q := history.Query{
		Substring: msg.Query,
		Fuzzy:     msg.Fuzzy,
		Limit:     msg.Limit,
	}
	if msg.Kind != "" {
		k, err := content.ParseKind(msg.Kind)
		if err != nil {
			return message.NewError(err)
		}
		q.Kind = k
	}
	snap := d.store.Snapshot()
	position := make(map[string]int, len(snap))
	for i, e := range snap {
		position[e.ID] = i
	}

	matched := history.Filter(snap, q)
	out := make([]message.Entry, 0, len(matched))
	for _, e := range matched {
		we := wireEntry(e)
		we.Index = position[e.ID]
		out = append(out, we)
	}
	return &message.Message{Type: message.TypeEntries, Entries: out}
}

func (d *daemon) handleCopy(msg *message.Message) *message.Message {
	if msg.Payload == nil {
		return message.NewError(errors.New("copy: no payload"))
	}
	c, err := msg.Payload.Decode()
	if err != nil {
		return message.NewError(err)
	}
	entry, isNew := d.store.Insert(c)
	if entry.ID == "" {
		return message.NewError(errors.New("copy: empty content"))
	}
	if err := d.board.Write(c); err != nil {
		d.log.Warn("clipboard write failed", "err", err)
	}
	d.log.Debug("entry copied over ipc", "id", entry.ID, "new", isNew)
	return &message.Message{
		Type:    message.TypeEntries,
		Entries: []message.Entry{wireEntry(entry)},
	}
}

func (d *daemon) handlePaste(msg *message.Message) *message.Message {
	entry, ok := d.resolve(msg)
	if !ok {
		return message.NewError(errNoSuchEntry)
	}
	if err := d.board.Write(entry.Content); err != nil {
		return message.NewError(fmt.Errorf("clipboard write: %w", err))
	}
	d.log.Debug("entry pasted", "id", entry.ID, "kind", entry.Kind)
	return &message.Message{
		Type:    message.TypeEntries,
		Entries: []message.Entry{wireEntry(entry)},
	}
}

func (d *daemon) handleStatus() *message.Message {
	return &message.Message{
		Type: message.TypeStatusResponse,
		Status: &message.Status{
			PID:         os.Getpid(),
			Version:     Version,
			StartedAt:   d.started,
			Backend:     d.board.Name(),
			Entries:     d.store.Len(),
			Capacity:    d.store.Capacity(),
			HistoryPath: d.file.Path(),
			LockPath:    d.lockPath,
			Sealed:      d.sealed,
		},
	}
}

// handleWatch streams store events to the client until the client hangs
// up or the daemon shuts down.
func (d *daemon) handleWatch(wc *wire.Conn) {
	events, cancel := d.store.Subscribe()
	defer cancel()

	// The client sends nothing after WATCH; a read returning means it
	// went away.
	connCtx, connGone := context.WithCancel(d.ctx)
	defer connGone()
	go func() {
		defer connGone()
		_, _ = wc.ReadMsg()
	}()

	d.log.Debug("watch subscriber attached")
	for {
		select {
		case <-connCtx.Done():
			d.log.Debug("watch subscriber detached")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := wc.WriteMsg(eventMessage(ev)); err != nil {
				return
			}
		}
	}
}

// resolve picks the entry a message's selector names. ID wins over
// Index.
func (d *daemon) resolve(msg *message.Message) (history.Entry, bool) {
	if msg.ID != "" {
		return d.store.Get(msg.ID)
	}
	if msg.Index != nil {
		return d.store.At(*msg.Index)
	}
	// No selector at all means the newest entry.
	return d.store.At(0)
}

func wireEntry(e history.Entry) message.Entry {
	return message.Entry{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Preview:   e.Content.Preview(),
		Payload:   content.Encode(e.Content),
	}
}

func eventMessage(ev history.Event) *message.Message {
	m := &message.Message{Type: message.TypeEvent, Op: string(ev.Op)}
	if ev.Entry != nil {
		we := wireEntry(*ev.Entry)
		m.Entry = &we
	}
	return m
}
