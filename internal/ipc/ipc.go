// Package ipc provides helpers for the local Unix-socket channel that
// CLI verbs (list/copy/paste/...) use to talk to the running paiste
// daemon. The daemon listens on the socket; verbs dial it and exchange
// newline-delimited JSON messages.
package ipc

import (
	"net"
	"os"
	"path/filepath"
)

// SocketPath returns the path for the IPC socket.
//
// Override with $PAISTE_SOCKET. Otherwise $XDG_RUNTIME_DIR/paiste.sock
// when the runtime dir is set (Linux), falling back to the system temp
// directory.
func SocketPath() string {
	if s := os.Getenv("PAISTE_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "paiste.sock")
	}
	return filepath.Join(os.TempDir(), "paiste.sock")
}

// IsRunning reports whether a paiste daemon appears to be listening on
// the IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path,
// removing any stale socket file first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	// Remove stale socket from a previous (crashed) run.
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

// Dial connects to the daemon's IPC socket.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}
