package content

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrUnknownKind marks a payload whose kind tag this build does not
// understand. Loaders skip such entries instead of failing the whole
// document, so files written by a newer build still load.
var ErrUnknownKind = errors.New("unknown content kind")

// Payload is the serialised form of a Content, shared by the history file
// and the IPC wire. Binary data is base64-encoded so it embeds safely in
// JSON strings.
type Payload struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"` // base64-encoded
	Path string `json:"path,omitempty"`
}

// Encode converts a Content into its wire/file form.
func Encode(c Content) Payload {
	switch v := c.(type) {
	case Text:
		return Payload{Kind: KindText, Text: string(v)}
	case Image:
		return Payload{Kind: KindImage, Data: base64.StdEncoding.EncodeToString(v.Bytes())}
	case File:
		return Payload{Kind: KindFile, Path: string(v)}
	default:
		// The set is closed; a new variant must be added here.
		return Payload{}
	}
}

// Decode converts a payload back into a Content. A kind this build does
// not know yields ErrUnknownKind.
func (p Payload) Decode() (Content, error) {
	switch p.Kind {
	case KindText:
		return NewText(p.Text), nil
	case KindImage:
		b, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("image data: %w", err)
		}
		return NewImage(b), nil
	case KindFile:
		return NewFile(p.Path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
}
