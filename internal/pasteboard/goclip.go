//go:build darwin || linux || windows

package pasteboard

import (
	"crypto/sha256"

	"golang.design/x/clipboard"

	"github.com/davisday9394/Paiste/internal/content"
)

// readGoclip maps a content kind onto the formats golang.design/x/clipboard
// exposes. File content has no native representation there, so file reads
// offer nothing.
func readGoclip(kind content.Kind) (content.Content, error) {
	switch kind {
	case content.KindText:
		if b := clipboard.Read(clipboard.FmtText); len(b) > 0 {
			return content.NewText(string(b)), nil
		}
	case content.KindImage:
		if b := clipboard.Read(clipboard.FmtImage); len(b) > 0 {
			return content.NewImage(b), nil
		}
	case content.KindFile:
		// Not representable; the poller captures file references only on
		// platforms that put paths on the clipboard as text.
	}
	return nil, nil
}

// writeGoclip puts c on the clipboard. File references are written as their
// path text.
func writeGoclip(c content.Content) error {
	switch v := c.(type) {
	case content.Text:
		clipboard.Write(clipboard.FmtText, []byte(v))
	case content.Image:
		clipboard.Write(clipboard.FmtImage, v.Bytes())
	case content.File:
		clipboard.Write(clipboard.FmtText, []byte(v.Path()))
	}
	return nil
}

func goclipDigest() [sha256.Size]byte {
	return digestOf(clipboard.Read(clipboard.FmtText), clipboard.Read(clipboard.FmtImage))
}
