package content

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"text", "image", "file", "TEXT", "Image"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): unexpected error: %v", s, err)
		}
	}
	if _, err := ParseKind("video"); err == nil {
		t.Error("ParseKind(video): expected error, got nil")
	}
}

func TestKindTags(t *testing.T) {
	cases := []struct {
		c    Content
		want Kind
	}{
		{NewText("hello"), KindText},
		{NewImage([]byte{0x89, 0x50}), KindImage},
		{NewFile("/tmp/report.pdf"), KindFile},
	}
	for _, tc := range cases {
		if got := tc.c.Kind(); got != tc.want {
			t.Errorf("Kind() = %q, want %q", got, tc.want)
		}
	}
}

func TestEmpty(t *testing.T) {
	if !NewText("").Empty() {
		t.Error("empty text should be Empty")
	}
	if !NewImage(nil).Empty() {
		t.Error("nil image should be Empty")
	}
	if !NewFile("").Empty() {
		t.Error("empty path should be Empty")
	}
	if NewText(" ").Empty() {
		t.Error("whitespace text is not Empty")
	}
}

func TestEqual_SameKind(t *testing.T) {
	if !NewText("a").Equal(NewText("a")) {
		t.Error("identical text should be equal")
	}
	if NewText("a").Equal(NewText("A")) {
		t.Error("text equality is case-sensitive")
	}

	img := []byte("not really a png but bytes are bytes")
	if !NewImage(img).Equal(NewImage(append([]byte(nil), img...))) {
		t.Error("images with identical bytes should be equal")
	}
	if NewImage(img).Equal(NewImage([]byte("different"))) {
		t.Error("images with different bytes should not be equal")
	}

	if !NewFile("/a/b").Equal(NewFile("/a/b")) {
		t.Error("identical paths should be equal")
	}
	if NewFile("/a/b").Equal(NewFile("/a/B")) {
		t.Error("path equality is exact")
	}
}

func TestEqual_CrossKind(t *testing.T) {
	// A path and a text with the same characters are different values.
	if NewText("/tmp/x").Equal(NewFile("/tmp/x")) {
		t.Error("text must never equal file")
	}
	if NewFile("/tmp/x").Equal(NewText("/tmp/x")) {
		t.Error("file must never equal text")
	}
	if NewImage([]byte("x")).Equal(NewText("x")) {
		t.Error("image must never equal text")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	contents := []Content{
		NewText("multi\nline\tvalue"),
		NewImage([]byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff}),
		NewFile("/home/user/notes.txt"),
	}
	for _, c := range contents {
		got, err := Encode(c).Decode()
		if err != nil {
			t.Fatalf("round trip %s: %v", c.Kind(), err)
		}
		if !got.Equal(c) {
			t.Errorf("round trip %s: values differ", c.Kind())
		}
		if got.Kind() != c.Kind() {
			t.Errorf("round trip %s: kind became %s", c.Kind(), got.Kind())
		}
	}
}

func TestPayloadDecode_UnknownKind(t *testing.T) {
	_, err := Payload{Kind: "hologram"}.Decode()
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error should wrap ErrUnknownKind, got %v", err)
	}
}

func TestPayloadDecode_BadBase64(t *testing.T) {
	_, err := Payload{Kind: KindImage, Data: "%%%not base64%%%"}.Decode()
	if err == nil {
		t.Fatal("expected error for invalid base64 image data")
	}
	if errors.Is(err, ErrUnknownKind) {
		t.Error("base64 failure must not report an unknown kind")
	}
}

func TestPreview(t *testing.T) {
	p := NewText("line one\nline two\t\tindented").Preview()
	if strings.ContainsAny(p, "\n\t") {
		t.Errorf("preview should be a single line, got %q", p)
	}

	long := strings.Repeat("x", 500)
	if got := NewText(long).Preview(); len([]rune(got)) > previewRunes {
		t.Errorf("preview too long: %d runes", len([]rune(got)))
	}

	if got := NewImage(make([]byte, 2048)).Preview(); !strings.Contains(got, "KiB") {
		t.Errorf("image preview should mention size, got %q", got)
	}
}
