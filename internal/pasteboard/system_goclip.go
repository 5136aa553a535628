//go:build linux || windows

package pasteboard

import (
	"fmt"
	"runtime"
	"sync"

	"golang.design/x/clipboard"

	"github.com/davisday9394/Paiste/internal/content"
)

type systemBoard struct {
	mu sync.Mutex
	dc digestCounter
}

// newSystem returns the clipboard backend for platforms where
// golang.design/x/clipboard works but exposes no change counter.
// clipboard.Init fails on hosts without a display connection; the caller
// then falls through to the next backend.
func newSystem() (Pasteboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	return &systemBoard{}, nil
}

func (b *systemBoard) Name() string {
	if runtime.GOOS == "windows" {
		return "Windows clipboard (poll)"
	}
	return "Linux clipboard (poll)"
}

func (b *systemBoard) ChangeCount() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dc.observe(goclipDigest()), nil
}

func (b *systemBoard) Read(kind content.Kind) (content.Content, error) {
	return readGoclip(kind)
}

func (b *systemBoard) Write(c content.Content) error {
	return writeGoclip(c)
}

func (b *systemBoard) Close() {}
