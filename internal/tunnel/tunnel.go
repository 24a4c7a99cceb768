// Package tunnel opens ssh port forwards described by tunnel profiles.
package tunnel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/sshclient"
	"github.com/treykane/remotec/internal/util"
)

// ErrEmptyForwardList is returned for a tunnel profile with no forwards.
var ErrEmptyForwardList = errors.New("profile doesn't contain any forwards")

// BuildArgs returns the ssh arguments for the tunnel's SSH profile, one -L
// pair per forward, then a long remote sleep that keeps the session open.
func BuildArgs(t model.TunnelProfile, profile model.SSHProfile, defaults model.SSHDefaults, opts sshclient.Options) ([]string, error) {
	if len(t.Forwards) == 0 {
		return nil, ErrEmptyForwardList
	}
	args, err := sshclient.BuildArgs(profile, defaults, opts)
	if err != nil {
		return nil, err
	}
	for _, fwd := range t.Forwards {
		slog.Info("forwarding", "remote", fwd.RemoteHost, "remote_port", fwd.RemotePort, "local_port", fwd.LocalPort)
		args = append(args, "-L", fwd.Arg())
	}
	return append(args, "sleep", util.TunnelSleepSeconds), nil
}

// Invoker prints or runs an ssh command line.
type Invoker interface {
	Invoke(ctx context.Context, args []string, printOnly bool) error
}

// Opener opens a URI or path with the OS default handler.
type Opener func(target string) error

// Launcher runs tunnel sessions and opens their targets once they are up.
type Launcher struct {
	client Invoker
	open   Opener
	delay  time.Duration
}

// NewLauncher creates a launcher that waits util.TunnelOpenDelay before
// opening a tunnel's target.
func NewLauncher(client Invoker, open Opener) *Launcher {
	return &Launcher{client: client, open: open, delay: util.TunnelOpenDelay}
}

// Launch runs the tunnel and blocks until ssh exits. When the profile has an
// open target and the tunnel is actually started, the target is opened in the
// background after the launcher's delay. Open failures are only logged.
func (l *Launcher) Launch(ctx context.Context, t model.TunnelProfile, args []string, printOnly bool) error {
	if !printOnly && t.Open != "" && l.open != nil {
		go l.openAfterDelay(ctx, t.Open)
	}
	return l.client.Invoke(ctx, args, printOnly)
}

func (l *Launcher) openAfterDelay(ctx context.Context, target string) {
	timer := time.NewTimer(l.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	slog.Info("opening tunnel target", "target", target)
	if err := l.open(target); err != nil {
		slog.Warn("unable to open tunnel target", "target", target, "error", err)
	}
}
