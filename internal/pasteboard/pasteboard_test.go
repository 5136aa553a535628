package pasteboard

import (
	"testing"

	"github.com/davisday9394/Paiste/internal/content"
)

func TestMemory_CounterBumpsOnPut(t *testing.T) {
	m := NewMemory()

	c0, err := m.ChangeCount()
	if err != nil {
		t.Fatalf("ChangeCount: %v", err)
	}

	m.Put(content.NewText("first"))
	c1, _ := m.ChangeCount()
	if c1 != c0+1 {
		t.Fatalf("counter = %d after one put, want %d", c1, c0+1)
	}

	// No change, no bump.
	c2, _ := m.ChangeCount()
	if c2 != c1 {
		t.Fatalf("counter moved without a change: %d -> %d", c1, c2)
	}

	if err := m.Write(content.NewText("second")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	c3, _ := m.ChangeCount()
	if c3 != c1+1 {
		t.Fatalf("Write should bump the counter: %d -> %d", c1, c3)
	}
}

func TestMemory_ReadByKind(t *testing.T) {
	m := NewMemory()

	if c, err := m.Read(content.KindText); err != nil || c != nil {
		t.Fatalf("empty board Read = (%v, %v), want (nil, nil)", c, err)
	}

	m.Put(content.NewText("hello"))
	c, err := m.Read(content.KindText)
	if err != nil || c == nil {
		t.Fatalf("Read text = (%v, %v)", c, err)
	}
	if !c.Equal(content.NewText("hello")) {
		t.Fatal("Read returned the wrong value")
	}

	// The board holds text; asking for an image offers nothing.
	if c, _ := m.Read(content.KindImage); c != nil {
		t.Fatalf("Read image on a text board = %v, want nil", c)
	}
}

func TestDigestCounter(t *testing.T) {
	var dc digestCounter

	a := digestOf([]byte("a"))
	b := digestOf([]byte("b"))

	// First observation primes the baseline without counting as a change:
	// content already on the clipboard at startup is not a new change.
	if got := dc.observe(a); got != 0 {
		t.Fatalf("first observation bumped the counter to %d", got)
	}
	if got := dc.observe(a); got != 0 {
		t.Fatalf("unchanged observation bumped the counter to %d", got)
	}
	if got := dc.observe(b); got != 1 {
		t.Fatalf("changed observation gave %d, want 1", got)
	}
	if got := dc.observe(b); got != 1 {
		t.Fatalf("settled observation gave %d, want 1", got)
	}
	if got := dc.observe(a); got != 2 {
		t.Fatalf("reverting is still a change, got %d, want 2", got)
	}
}

func TestDigestOf_Boundaries(t *testing.T) {
	if digestOf([]byte("ab"), []byte("c")) == digestOf([]byte("a"), []byte("bc")) {
		t.Fatal("part boundaries must affect the digest")
	}
	if digestOf([]byte("ab")) == digestOf([]byte("ab"), nil) {
		t.Fatal("an extra empty part must affect the digest")
	}
	if digestOf([]byte("ab")) != digestOf([]byte("ab")) {
		t.Fatal("digest must be deterministic")
	}
}
