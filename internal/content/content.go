// Package content models the values paiste captures from the clipboard:
// plain text, image bytes, and file references. The set of kinds is closed;
// everything that consumes a Content switches over the three concrete types
// and handles each one.
package content

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Kind tags a Content variant so callers can filter without inspecting
// the value itself.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindFile  Kind = "file"
)

// DefaultOrder is the capture priority used when the clipboard offers
// several representations at once.
var DefaultOrder = []Kind{KindText, KindImage, KindFile}

// ParseKind validates a kind string from a flag or the wire.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindText, KindImage, KindFile:
		return k, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// Content is a single captured clipboard value. The unexported method
// keeps the implementation set closed to the three types in this package.
type Content interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Empty reports whether the value carries no usable data. Empty
	// content is never stored.
	Empty() bool

	// Equal reports whether other holds the same value. Contents of
	// different kinds are never equal.
	Equal(other Content) bool

	// Preview returns a short single-line rendering for lists and logs.
	Preview() string

	sealed()
}

// Text is a plain-text clipboard value.
type Text string

// NewText wraps s as text content.
func NewText(s string) Text { return Text(s) }

func (t Text) Kind() Kind  { return KindText }
func (t Text) Empty() bool { return len(t) == 0 }

func (t Text) Equal(other Content) bool {
	o, ok := other.(Text)
	return ok && o == t
}

func (t Text) Preview() string { return preview(string(t)) }
func (Text) sealed()           {}

// Image is an image clipboard value (PNG bytes as read off the clipboard).
// The digest is computed once at construction; equality compares digests,
// not the raw bytes.
type Image struct {
	data []byte
	sum  [sha256.Size]byte
}

// NewImage wraps data as image content.
func NewImage(data []byte) Image {
	return Image{data: data, sum: sha256.Sum256(data)}
}

func (im Image) Kind() Kind  { return KindImage }
func (im Image) Empty() bool { return len(im.data) == 0 }

// Bytes returns the raw image bytes.
func (im Image) Bytes() []byte { return im.data }

func (im Image) Equal(other Content) bool {
	o, ok := other.(Image)
	return ok && o.sum == im.sum
}

func (im Image) Preview() string {
	return fmt.Sprintf("[image %s]", byteCount(len(im.data)))
}

func (Image) sealed() {}

// File is a file reference (a path, not the file's bytes).
type File string

// NewFile wraps path as file content.
func NewFile(path string) File { return File(path) }

func (f File) Kind() Kind  { return KindFile }
func (f File) Empty() bool { return len(f) == 0 }

// Path returns the referenced path.
func (f File) Path() string { return string(f) }

func (f File) Equal(other Content) bool {
	o, ok := other.(File)
	return ok && o == f
}

func (f File) Preview() string { return preview(string(f)) }
func (File) sealed()           {}

const previewRunes = 64

// preview flattens whitespace and truncates to a single displayable line.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes-1]) + "…"
}

func byteCount(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
	}
}
