//go:build darwin

package pasteboard

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger paiste_changeCount() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

import (
	"fmt"

	"golang.design/x/clipboard"

	"github.com/davisday9394/Paiste/internal/content"
)

type darwinBoard struct{}

// newSystem returns the macOS backend. NSPasteboard maintains a native
// change counter, so no observation dance is needed here.
func newSystem() (Pasteboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	return &darwinBoard{}, nil
}

func (b *darwinBoard) Name() string { return "macOS NSPasteboard" }

func (b *darwinBoard) ChangeCount() (uint64, error) {
	return uint64(C.paiste_changeCount()), nil
}

func (b *darwinBoard) Read(kind content.Kind) (content.Content, error) {
	return readGoclip(kind)
}

func (b *darwinBoard) Write(c content.Content) error {
	return writeGoclip(c)
}

func (b *darwinBoard) Close() {}
