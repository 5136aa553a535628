package pasteboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/davisday9394/Paiste/internal/content"
)

// commandBoard drives the clipboard through the helper commands atotto
// shells out to (pbcopy/pbpaste, xclip, xsel, clip.exe). Text only; it is
// the fallback when the native backend cannot initialise, e.g. a build
// without cgo talking to an X session over SSH.
type commandBoard struct {
	mu sync.Mutex
	dc digestCounter
}

func newCommand() (Pasteboard, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("no clipboard helper command on this platform")
	}
	if _, err := clipboard.ReadAll(); err != nil {
		return nil, fmt.Errorf("clipboard helper probe: %w", err)
	}
	return &commandBoard{}, nil
}

func (b *commandBoard) Name() string { return "clipboard command (text only)" }

func (b *commandBoard) ChangeCount() (uint64, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read clipboard: %w", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dc.observe(digestOf([]byte(s))), nil
}

func (b *commandBoard) Read(kind content.Kind) (content.Content, error) {
	if kind != content.KindText {
		return nil, nil
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return content.NewText(s), nil
}

func (b *commandBoard) Write(c content.Content) error {
	var s string
	switch v := c.(type) {
	case content.Text:
		s = string(v)
	case content.File:
		s = v.Path()
	case content.Image:
		return fmt.Errorf("%s cannot hold images", b.Name())
	}
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func (b *commandBoard) Close() {}
