package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/history"
	"github.com/davisday9394/Paiste/internal/message"
	"github.com/davisday9394/Paiste/internal/pasteboard"
	"github.com/davisday9394/Paiste/internal/persist"
)

func testDaemon(t *testing.T) (*daemon, *pasteboard.Memory) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	board := pasteboard.NewMemory()
	file, err := persist.NewFile(persist.Config{Path: t.TempDir() + "/history.json", Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	d := &daemon{
		log:     log,
		store:   history.New(history.Config{Logger: log}),
		board:   board,
		file:    file,
		started: time.Now(),
	}
	return d, board
}

func seed(t *testing.T, d *daemon, texts ...string) []history.Entry {
	t.Helper()
	// Insert in reverse so texts[0] ends up newest, matching list order.
	for i := len(texts) - 1; i >= 0; i-- {
		d.store.Insert(content.NewText(texts[i]))
	}
	return d.store.Snapshot()
}

func TestDispatch_List(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "alpha", "beta", "gamma")

	resp := d.dispatch(&message.Message{Type: message.TypeList})
	if resp.Type != message.TypeEntries {
		t.Fatalf("reply = %q", resp.Type)
	}
	if len(resp.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(resp.Entries))
	}
	if resp.Entries[0].Text != "alpha" || resp.Entries[0].Index != 0 {
		t.Fatalf("first row = %+v", resp.Entries[0])
	}
	if resp.Entries[2].Index != 2 {
		t.Fatalf("last row index = %d, want 2", resp.Entries[2].Index)
	}
}

func TestDispatch_ListFilteredKeepsRealIndexes(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "one match", "nothing", "another match")

	resp := d.dispatch(&message.Message{Type: message.TypeList, Query: "match"})
	if len(resp.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(resp.Entries))
	}
	// "another match" sits at position 2 of the full history even though
	// it is the second row of the filtered listing.
	if resp.Entries[0].Index != 0 || resp.Entries[1].Index != 2 {
		t.Fatalf("indexes = %d, %d; want 0, 2", resp.Entries[0].Index, resp.Entries[1].Index)
	}
}

func TestDispatch_CopyInsertsAndWritesBoard(t *testing.T) {
	d, board := testDaemon(t)

	p := content.Encode(content.NewText("from the cli"))
	resp := d.dispatch(&message.Message{Type: message.TypeCopy, Payload: &p})
	if resp.Type != message.TypeEntries || len(resp.Entries) != 1 {
		t.Fatalf("reply = %+v", resp)
	}
	if d.store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", d.store.Len())
	}

	got, err := board.Read(content.KindText)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Equal(content.NewText("from the cli")) {
		t.Fatal("board does not hold the copied value")
	}
}

func TestDispatch_CopyEmptyIsError(t *testing.T) {
	d, _ := testDaemon(t)

	p := content.Encode(content.NewText(""))
	resp := d.dispatch(&message.Message{Type: message.TypeCopy, Payload: &p})
	if resp.Type != message.TypeError {
		t.Fatalf("reply = %q, want ERROR", resp.Type)
	}
	if resp2 := d.dispatch(&message.Message{Type: message.TypeCopy}); resp2.Type != message.TypeError {
		t.Fatalf("no-payload reply = %q, want ERROR", resp2.Type)
	}
}

func TestDispatch_PasteBySelector(t *testing.T) {
	d, board := testDaemon(t)
	entries := seed(t, d, "newest", "middle", "oldest")

	// By index.
	resp := d.dispatch((&message.Message{Type: message.TypePaste}).WithIndex(1))
	if resp.Type != message.TypeEntries {
		t.Fatalf("reply = %+v", resp)
	}
	got, _ := board.Read(content.KindText)
	if !got.Equal(content.NewText("middle")) {
		t.Fatal("index selector pasted the wrong entry")
	}

	// By id.
	resp = d.dispatch(&message.Message{Type: message.TypePaste, ID: entries[2].ID})
	if resp.Type != message.TypeEntries {
		t.Fatalf("reply = %+v", resp)
	}
	got, _ = board.Read(content.KindText)
	if !got.Equal(content.NewText("oldest")) {
		t.Fatal("id selector pasted the wrong entry")
	}

	// No selector means the newest entry.
	resp = d.dispatch(&message.Message{Type: message.TypePaste})
	if resp.Type != message.TypeEntries {
		t.Fatalf("reply = %+v", resp)
	}
	got, _ = board.Read(content.KindText)
	if !got.Equal(content.NewText("newest")) {
		t.Fatal("bare paste should restore the newest entry")
	}
}

func TestDispatch_PasteMissingEntry(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "only")

	resp := d.dispatch((&message.Message{Type: message.TypePaste}).WithIndex(7))
	if resp.Type != message.TypeError {
		t.Fatalf("reply = %q, want ERROR", resp.Type)
	}
	resp = d.dispatch(&message.Message{Type: message.TypePaste, ID: "no-such-id"})
	if resp.Type != message.TypeError {
		t.Fatalf("reply = %q, want ERROR", resp.Type)
	}
}

func TestDispatch_PromoteAndRemove(t *testing.T) {
	d, _ := testDaemon(t)
	entries := seed(t, d, "a", "b", "c")

	resp := d.dispatch(&message.Message{Type: message.TypePromote, ID: entries[2].ID})
	if resp.Type != message.TypeOK {
		t.Fatalf("promote reply = %+v", resp)
	}
	snap := d.store.Snapshot()
	if snap[0].ID != entries[2].ID {
		t.Fatal("promote did not move the entry to the top")
	}

	resp = d.dispatch((&message.Message{Type: message.TypeRemove}).WithIndex(0))
	if resp.Type != message.TypeOK {
		t.Fatalf("remove reply = %+v", resp)
	}
	if d.store.Len() != 2 {
		t.Fatalf("store len = %d after remove, want 2", d.store.Len())
	}
}

func TestDispatch_PromoteAndRemoveRequireSelector(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "a", "b")

	for _, typ := range []message.Type{message.TypePromote, message.TypeRemove} {
		resp := d.dispatch(&message.Message{Type: typ})
		if resp.Type != message.TypeError {
			t.Fatalf("%s without selector: reply = %+v, want error", typ, resp)
		}
	}
	if d.store.Len() != 2 {
		t.Fatalf("store len = %d, selector-less request mutated the store", d.store.Len())
	}
}

func TestDispatch_Clear(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "a", "b")

	resp := d.dispatch(&message.Message{Type: message.TypeClear})
	if resp.Type != message.TypeOK {
		t.Fatalf("clear reply = %+v", resp)
	}
	if d.store.Len() != 0 {
		t.Fatal("store not empty after clear")
	}
}

func TestDispatch_Status(t *testing.T) {
	d, _ := testDaemon(t)
	seed(t, d, "a")

	resp := d.dispatch(&message.Message{Type: message.TypeStatus})
	if resp.Type != message.TypeStatusResponse || resp.Status == nil {
		t.Fatalf("reply = %+v", resp)
	}
	st := resp.Status
	if st.Entries != 1 || st.Capacity != history.DefaultCapacity {
		t.Fatalf("status = %+v", st)
	}
	if st.Backend != d.board.Name() {
		t.Fatalf("backend = %q", st.Backend)
	}
}

func TestDispatch_RaiseReachesSubscribers(t *testing.T) {
	d, _ := testDaemon(t)
	events, cancel := d.store.Subscribe()
	defer cancel()

	resp := d.dispatch(&message.Message{Type: message.TypeRaise})
	if resp.Type != message.TypeOK {
		t.Fatalf("raise reply = %+v", resp)
	}
	select {
	case ev := <-events:
		if ev.Op != history.OpRaise {
			t.Fatalf("op = %q, want raise", ev.Op)
		}
	case <-time.After(time.Second):
		t.Fatal("no raise event delivered")
	}
}

func TestDispatch_Unknown(t *testing.T) {
	d, _ := testDaemon(t)
	resp := d.dispatch(&message.Message{Type: "BOGUS"})
	if resp.Type != message.TypeError {
		t.Fatalf("reply = %q, want ERROR", resp.Type)
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"image", "text"})
	if err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 2 || kinds[0] != content.KindImage || kinds[1] != content.KindText {
		t.Fatalf("kinds = %v", kinds)
	}

	if _, err := parseKinds([]string{"video"}); err == nil {
		t.Fatal("unknown kind must be rejected")
	}

	kinds, err = parseKinds(nil)
	if err != nil || kinds != nil {
		t.Fatalf("empty input should mean defaults, got %v, %v", kinds, err)
	}
}
