//go:build !windows

package sshclient

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// watchResize copies src's window size to dst now and on every SIGWINCH
// until the returned stop func is called.
func watchResize(src, dst *os.File) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
			if err := pty.InheritSize(src, dst); err != nil {
				slog.Debug("unable to copy terminal size", "error", err)
			}
		}
	}()
	ch <- syscall.SIGWINCH
	return func() {
		signal.Stop(ch)
		close(ch)
		<-done
	}
}
