package message

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/davisday9394/Paiste/internal/content"
)

func TestRoundTrip_ListRequest(t *testing.T) {
	in := &Message{
		Type:  TypeList,
		Kind:  "text",
		Query: "needle",
		Fuzzy: true,
		Limit: 10,
	}
	b, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Type != TypeList || out.Kind != "text" || out.Query != "needle" || !out.Fuzzy || out.Limit != 10 {
		t.Fatalf("round trip = %+v", out)
	}
}

func TestRoundTrip_EntryPayload(t *testing.T) {
	img := content.NewImage([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	in := &Message{
		Type: TypeEntries,
		Entries: []Entry{{
			ID:        "e1",
			CreatedAt: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
			Preview:   img.Preview(),
			Payload:   content.Encode(img),
		}},
	}
	b, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(out.Entries))
	}
	got, err := out.Entries[0].Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if !got.Equal(img) {
		t.Fatal("image payload did not survive the wire")
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("{nope")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestSelector(t *testing.T) {
	m := &Message{Type: TypePaste}
	if m.HasSelector() {
		t.Fatal("bare message should not select anything")
	}

	m.WithIndex(0)
	if !m.HasSelector() {
		t.Fatal("index 0 is a valid selector")
	}
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"index":0`) {
		t.Fatalf("index 0 must survive encoding, got %s", b)
	}

	out, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if out.Index == nil || *out.Index != 0 {
		t.Fatalf("decoded index = %v", out.Index)
	}
}

func TestNewError(t *testing.T) {
	m := NewError(errors.New("boom"))
	if m.Type != TypeError || m.Error != "boom" {
		t.Fatalf("NewError = %+v", m)
	}
}
