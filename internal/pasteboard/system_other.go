//go:build !darwin && !linux && !windows

package pasteboard

import (
	"fmt"
	"runtime"
)

func newSystem() (Pasteboard, error) {
	return nil, fmt.Errorf("no system clipboard backend on %s", runtime.GOOS)
}
