// Package sshclient composes ssh command lines for remotec profiles and runs
// them through the system ssh binary.
//
// remotec does not speak SSH itself. Arguments are passed via exec argv, never
// through a shell, so profile values cannot inject shell syntax.
package sshclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/resolve"
)

var (
	// ErrNoJumpHostsConfigured is returned when jump hosts are forced on a
	// profile that has none.
	ErrNoJumpHostsConfigured = errors.New("profile doesn't contain any jump hosts")
	// ErrEmptyCommand is returned for a command profile with no tokens.
	ErrEmptyCommand = errors.New("profile doesn't contain any command")
)

// Options carries the CLI overrides shared by ssh, tunnel and command.
type Options struct {
	PreferIPv4       bool
	PreferIPv6       bool
	UseJumpHosts     bool
	DisableJumpHosts bool
}

// BuildArgs returns the ssh arguments that connect to profile.
//
// Without jump hosts the result is user@address, followed by -p port when a
// port is set. With jump hosts it is a single -J followed by one user@host[:port]
// token per hop, then user@address[:port]. Hops without a username use the
// destination's.
func BuildArgs(profile model.SSHProfile, defaults model.SSHDefaults, opts Options) ([]string, error) {
	jumps, err := jumpHosts(profile, opts)
	if err != nil {
		return nil, err
	}
	address, err := resolve.Address(profile.Address, opts.PreferIPv4, opts.PreferIPv6)
	if err != nil {
		return nil, err
	}
	username := resolve.Username(profile.Username, defaults.Username)

	var args []string
	if len(jumps) == 0 {
		args = append(args, username+"@"+address)
		if profile.Port != 0 {
			args = append(args, "-p", strconv.Itoa(profile.Port))
		}
		return args, nil
	}

	args = append(args, "-J")
	for _, j := range jumps {
		user := j.Username
		if user == "" {
			user = username
		}
		args = append(args, user+"@"+j.Hostname+portSuffix(j.Port))
	}
	args = append(args, username+"@"+address+portSuffix(profile.Port))
	return args, nil
}

// BuildCommandArgs returns the ssh arguments for profile followed by the
// command profile's tokens.
func BuildCommandArgs(cmd model.CommandProfile, profile model.SSHProfile, defaults model.SSHDefaults, opts Options) ([]string, error) {
	if len(cmd.Command) == 0 {
		return nil, ErrEmptyCommand
	}
	args, err := BuildArgs(profile, defaults, opts)
	if err != nil {
		return nil, err
	}
	return append(args, cmd.Command...), nil
}

func jumpHosts(profile model.SSHProfile, opts Options) ([]model.JumpHost, error) {
	if opts.UseJumpHosts {
		if len(profile.JumpHosts) == 0 {
			return nil, ErrNoJumpHostsConfigured
		}
		return profile.JumpHosts, nil
	}
	if opts.DisableJumpHosts || profile.DisableJumpHosts {
		return nil, nil
	}
	return profile.JumpHosts, nil
}

func portSuffix(port int) string {
	if port == 0 {
		return ""
	}
	return ":" + strconv.Itoa(port)
}

// Client prints or runs ssh command lines.
type Client struct {
	Binary string
	Stdout io.Writer
}

// New creates a client for the ssh binary on PATH writing to os.Stdout.
func New() *Client { return &Client{Binary: "ssh", Stdout: os.Stdout} }

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// EnsureSSHBinary checks that the "ssh" binary is available on the system PATH.
func EnsureSSHBinary() error {
	if _, err := lookPath("ssh"); err != nil {
		return fmt.Errorf("ssh binary not found in PATH")
	}
	return nil
}

// CommandLine renders args as the space-joined command that would be run.
func (c *Client) CommandLine(args []string) string {
	return c.Binary + " " + strings.Join(args, " ")
}

// Invoke prints the command line when printOnly is set and runs it otherwise.
func (c *Client) Invoke(ctx context.Context, args []string, printOnly bool) error {
	if printOnly {
		_, err := fmt.Fprintln(c.Stdout, c.CommandLine(args))
		return err
	}
	return c.Run(ctx, args)
}

// Run starts ssh and waits for it to exit. When both stdin and stdout are
// terminals the session runs in a pseudo-terminal, with the local terminal in
// raw mode and window size changes forwarded. Otherwise ssh inherits the
// process's stdio so that piped input reaches EOF and output is not
// translated.
func (c *Client) Run(ctx context.Context, args []string) error {
	slog.Info("invoking", "command", c.CommandLine(args))
	if !c.interactive() {
		return c.runInherited(ctx, args)
	}

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	f, err := pty.Start(cmd)
	if errors.Is(err, pty.ErrUnsupported) {
		return c.runInherited(ctx, args)
	}
	if err != nil {
		return fmt.Errorf("error invoking ssh: %w", err)
	}
	defer f.Close()

	stopResize := watchResize(os.Stdin, f)
	defer stopResize()

	stdinFd := int(os.Stdin.Fd())
	if state, err := term.MakeRaw(stdinFd); err == nil {
		defer func() { _ = term.Restore(stdinFd, state) }()
	}

	go func() {
		_, _ = io.Copy(f, os.Stdin)
	}()
	_, _ = io.Copy(c.Stdout, f)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ssh exited: %w", err)
	}
	return nil
}

func (c *Client) interactive() bool {
	out, ok := c.Stdout.(*os.File)
	return ok && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(out.Fd()))
}

func (c *Client) runInherited(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh exited: %w", err)
	}
	return nil
}
