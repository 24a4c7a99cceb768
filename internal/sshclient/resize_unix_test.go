//go:build !windows

package sshclient

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
)

func waitForRows(t *testing.T, f *os.File, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ws, err := pty.GetsizeFull(f)
		if err == nil && int(ws.Rows) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("window size never reached %d rows", want)
}

func TestWatchResizeFollowsSIGWINCH(t *testing.T) {
	srcPty, srcTTY, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer srcPty.Close()
	defer srcTTY.Close()
	dstPty, dstTTY, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer dstPty.Close()
	defer dstTTY.Close()

	if err := pty.Setsize(srcPty, &pty.Winsize{Rows: 40, Cols: 100}); err != nil {
		t.Fatal(err)
	}
	stop := watchResize(srcTTY, dstPty)
	defer stop()
	waitForRows(t, dstPty, 40)

	if err := pty.Setsize(srcPty, &pty.Winsize{Rows: 52, Cols: 120}); err != nil {
		t.Fatal(err)
	}
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGWINCH); err != nil {
		t.Fatal(err)
	}
	waitForRows(t, dstPty, 52)
}
