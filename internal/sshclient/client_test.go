package sshclient

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/resolve"
)

func stubUser(t *testing.T, name string) {
	t.Helper()
	orig := resolve.CurrentUser
	resolve.CurrentUser = func() string { return name }
	t.Cleanup(func() { resolve.CurrentUser = orig })
}

func TestBuildArgsDirectWithPort(t *testing.T) {
	p := model.SSHProfile{Name: "box", Address: model.Address{Hostname: "h", Port: 22}, Username: "u"}
	got, err := BuildArgs(p, model.SSHDefaults{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"u@h", "-p", "22"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", want, got)
	}
}

func TestBuildArgsSingleJumpHost(t *testing.T) {
	p := model.SSHProfile{
		Name:      "box",
		Address:   model.Address{Hostname: "h"},
		Username:  "u",
		JumpHosts: []model.JumpHost{{Hostname: "j1"}},
	}
	got, err := BuildArgs(p, model.SSHDefaults{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-J", "u@j1", "u@h"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", want, got)
	}
}

func TestBuildArgsMultiHopWithPorts(t *testing.T) {
	stubUser(t, "local")
	p := model.SSHProfile{
		Name:    "box",
		Address: model.Address{Hostname: "h", IPv4: "10.1.1.1", Port: 2200},
		JumpHosts: []model.JumpHost{
			{Hostname: "edge", Username: "jump", Port: 2222},
			{Hostname: "inner"},
		},
	}
	got, err := BuildArgs(p, model.SSHDefaults{Username: "ops"}, Options{PreferIPv4: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-J", "jump@edge:2222", "ops@inner", "ops@10.1.1.1:2200"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", want, got)
	}
}

func TestBuildArgsJumpHostSelection(t *testing.T) {
	stubUser(t, "local")
	withJumps := model.SSHProfile{
		Address:   model.Address{Hostname: "h"},
		JumpHosts: []model.JumpHost{{Hostname: "j"}},
	}
	disabledByDefault := withJumps
	disabledByDefault.DisableJumpHosts = true
	noJumps := model.SSHProfile{Address: model.Address{Hostname: "h"}}

	cases := []struct {
		name    string
		profile model.SSHProfile
		opts    Options
		want    []string
		wantErr error
	}{
		{"profile default", withJumps, Options{}, []string{"-J", "local@j", "local@h"}, nil},
		{"cli disables", withJumps, Options{DisableJumpHosts: true}, []string{"local@h"}, nil},
		{"profile disables", disabledByDefault, Options{}, []string{"local@h"}, nil},
		{"cli forces over profile default", disabledByDefault, Options{UseJumpHosts: true}, []string{"-J", "local@j", "local@h"}, nil},
		{"cli forces without jumps", noJumps, Options{UseJumpHosts: true}, nil, ErrNoJumpHostsConfigured},
		{"empty list is legal", noJumps, Options{}, []string{"local@h"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildArgs(tc.profile, model.SSHDefaults{}, tc.opts)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("args mismatch\nwant=%v\n got=%v", tc.want, got)
			}
		})
	}
}

func TestBuildArgsAddressError(t *testing.T) {
	p := model.SSHProfile{Address: model.Address{Hostname: "h"}, Username: "u"}
	_, err := BuildArgs(p, model.SSHDefaults{}, Options{PreferIPv6: true})
	var missing *resolve.MissingAddressFamilyError
	if !errors.As(err, &missing) || missing.Family != resolve.IPv6 {
		t.Fatalf("expected missing IPv6 error, got %v", err)
	}
}

func TestBuildCommandArgs(t *testing.T) {
	p := model.SSHProfile{Address: model.Address{Hostname: "h"}, Username: "u"}
	cmd := model.CommandProfile{Name: "logs", SSHProfile: "box", Command: []string{"journalctl", "-fu", "nginx"}}
	got, err := BuildCommandArgs(cmd, p, model.SSHDefaults{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"u@h", "journalctl", "-fu", "nginx"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", want, got)
	}

	cmd.Command = nil
	if _, err := BuildCommandArgs(cmd, p, model.SSHDefaults{}, Options{}); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}

func TestInvokePrintOnly(t *testing.T) {
	var out bytes.Buffer
	c := &Client{Binary: "ssh", Stdout: &out}
	if err := c.Invoke(context.Background(), []string{"u@h", "-p", "22"}, true); err != nil {
		t.Fatal(err)
	}
	if out.String() != "ssh u@h -p 22\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunWithPipedStdinInheritsStdio(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	in := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(in, []byte("line1\nline2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(in)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	origStdin := os.Stdin
	os.Stdin = f
	t.Cleanup(func() { os.Stdin = origStdin })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var out bytes.Buffer
	c := &Client{Binary: cat, Stdout: &out}
	if err := c.Run(ctx, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "line1\nline2\n" {
		t.Fatalf("output must be passed through untouched, got %q", out.String())
	}
}

func TestRunReportsExitStatus(t *testing.T) {
	bin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	c := &Client{Binary: bin, Stdout: &bytes.Buffer{}}
	var exitErr *exec.ExitError
	if err := c.Run(context.Background(), nil); !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
}

func TestEnsureSSHBinary(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	if err := EnsureSSHBinary(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	if err := EnsureSSHBinary(); err == nil {
		t.Fatal("expected missing ssh error")
	}
}
