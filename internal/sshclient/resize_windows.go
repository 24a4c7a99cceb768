//go:build windows

package sshclient

import "os"

// Windows has no SIGWINCH and pty.Start is unsupported there, so sessions
// never reach this with a live pty.
func watchResize(src, dst *os.File) (stop func()) {
	return func() {}
}
