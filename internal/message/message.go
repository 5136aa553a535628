// Package message defines the paiste IPC protocol.
//
// All messages are newline-delimited JSON. Binary payloads are
// base64-encoded so that image bytes are safe to embed in JSON strings.
// Each message is exactly one line: <json>\n
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/davisday9394/Paiste/internal/content"
)

// Type identifies the kind of message.
type Type string

// Requests, sent by CLI verbs to the daemon.
const (
	TypeList    Type = "LIST"
	TypeCopy    Type = "COPY"
	TypePaste   Type = "PASTE"
	TypePromote Type = "PROMOTE"
	TypeRemove  Type = "REMOVE"
	TypeClear   Type = "CLEAR"
	TypeStatus  Type = "STATUS"
	TypeWatch   Type = "WATCH"
	TypeRaise   Type = "RAISE"
)

// Responses, sent by the daemon.
const (
	TypeEntries        Type = "ENTRIES"
	TypeOK             Type = "OK"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeEvent          Type = "EVENT"
	TypeError          Type = "ERROR"
)

// Entry is one history row on the wire: identity and metadata plus the
// tagged content payload. Index is the entry's position in the full
// history at reply time (0 = newest); selectors take it even when the
// listing was filtered.
type Entry struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	CreatedAt time.Time `json:"created_at"`
	Preview   string    `json:"preview,omitempty"`
	content.Payload
}

// Content decodes the entry's payload.
func (e Entry) Content() (content.Content, error) {
	return e.Payload.Decode()
}

// Status describes a running daemon, used in STATUS_RESPONSE.
type Status struct {
	PID         int       `json:"pid"`
	Version     string    `json:"version"`
	StartedAt   time.Time `json:"started_at"`
	Backend     string    `json:"backend"`
	Entries     int       `json:"entries"`
	Capacity    int       `json:"capacity"`
	HistoryPath string    `json:"history_path"`
	LockPath    string    `json:"lock_path"`
	Sealed      bool      `json:"sealed"`
}

// Message is the top-level wire envelope.
type Message struct {
	// Always present
	Type Type `json:"type"`

	// PASTE, PROMOTE, REMOVE — entry selection. ID wins when set,
	// otherwise Index counts from the top of the history.
	ID    string `json:"id,omitempty"`
	Index *int   `json:"index,omitempty"`

	// COPY — the content to store
	Payload *content.Payload `json:"payload,omitempty"`

	// LIST — optional filters
	Kind  string `json:"kind,omitempty"`
	Query string `json:"query,omitempty"`
	Fuzzy bool   `json:"fuzzy,omitempty"`
	Limit int    `json:"limit,omitempty"`

	// ENTRIES
	Entries []Entry `json:"entries,omitempty"`

	// EVENT — one store mutation, streamed to WATCH subscribers
	Op    string `json:"op,omitempty"`
	Entry *Entry `json:"entry,omitempty"`

	// STATUS_RESPONSE
	Status *Status `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// NewError wraps err in an ERROR message.
func NewError(err error) *Message {
	return &Message{Type: TypeError, Error: err.Error()}
}

// OK is the bare success response.
func OK() *Message {
	return &Message{Type: TypeOK}
}

// WithIndex returns m with its Index selector set. Index zero is a valid
// selector (the newest entry), which is why the field is a pointer.
func (m *Message) WithIndex(i int) *Message {
	m.Index = &i
	return m
}

// HasSelector reports whether the message selects an entry at all.
func (m *Message) HasSelector() bool {
	return m.ID != "" || m.Index != nil
}
